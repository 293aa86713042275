package maths

import (
	"fmt"
	"strings"
)

// denseMatrix 稠密矩阵实现（行优先，全量存储所有元素）
type denseMatrix[T Number] struct {
	*dataManager[T]
	rows, cols int
}

// NewDenseMatrix 创建指定维度的空稠密矩阵
func NewDenseMatrix[T Number](rows, cols int) Matrix[T] {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("invalid matrix dimension %dx%d", rows, cols))
	}
	return &denseMatrix[T]{
		dataManager: newDataManager[T](rows * cols),
		rows:        rows,
		cols:        cols,
	}
}

// NewIdentity 创建n阶单位矩阵
func NewIdentity[T Number](n int) Matrix[T] {
	m := NewDenseMatrix[T](n, n)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// NewDiagonal 以给定对角元素创建方阵
func NewDiagonal[T Number](diag []T) Matrix[T] {
	m := NewDenseMatrix[T](len(diag), len(diag))
	for i, v := range diag {
		m.Set(i, i, v)
	}
	return m
}

// Rows 返回矩阵行数
func (m *denseMatrix[T]) Rows() int {
	return m.rows
}

// Cols 返回矩阵列数
func (m *denseMatrix[T]) Cols() int {
	return m.cols
}

// IsSquare 判断是否为方阵
func (m *denseMatrix[T]) IsSquare() bool {
	return m.rows == m.cols
}

func (m *denseMatrix[T]) index(row, col int) int {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("index (%d,%d) out of range %dx%d", row, col, m.rows, m.cols))
	}
	return row*m.cols + col
}

// Get 获取指定行列元素值（越界panic）
func (m *denseMatrix[T]) Get(row, col int) T {
	return m.data[m.index(row, col)]
}

// Set 设置指定行列元素值（越界panic）
func (m *denseMatrix[T]) Set(row, col int, value T) {
	m.data[m.index(row, col)] = value
}

// Increment 增量更新矩阵元素（value累加，越界panic）
func (m *denseMatrix[T]) Increment(row, col int, value T) {
	m.data[m.index(row, col)] += value
}

// BuildFromDense 从稠密矩阵构建（覆盖原有数据）
func (m *denseMatrix[T]) BuildFromDense(dense [][]T) {
	if len(dense) != m.rows {
		panic("dimension mismatch")
	}
	for i, row := range dense {
		if len(row) != m.cols {
			panic("dimension mismatch")
		}
		copy(m.data[i*m.cols:(i+1)*m.cols], row)
	}
}

// Copy 复制自身数据到目标矩阵
func (m *denseMatrix[T]) Copy(a Matrix[T]) {
	if a.Rows() != m.rows || a.Cols() != m.cols {
		panic(fmt.Sprintf("dimension mismatch: source %dx%d, target %dx%d", m.rows, m.cols, a.Rows(), a.Cols()))
	}
	switch target := a.(type) {
	case *denseMatrix[T]:
		m.dataManager.Copy(target.dataManager)
	default:
		for i := 0; i < m.rows; i++ {
			for j := 0; j < m.cols; j++ {
				target.Set(i, j, m.Get(i, j))
			}
		}
	}
}

// SwapRows 交换两行
func (m *denseMatrix[T]) SwapRows(row1, row2 int) {
	if row1 == row2 {
		return
	}
	r1 := m.data[m.index(row1, 0) : m.index(row1, 0)+m.cols]
	r2 := m.data[m.index(row2, 0) : m.index(row2, 0)+m.cols]
	for j := range r1 {
		r1[j], r2[j] = r2[j], r1[j]
	}
}

// MatrixVectorMultiply 矩阵向量乘法（A*x，返回新向量）
func (m *denseMatrix[T]) MatrixVectorMultiply(x Vector[T]) Vector[T] {
	if x.Length() != m.cols {
		panic(fmt.Sprintf("vector dimension mismatch: x length=%d, matrix cols=%d", x.Length(), m.cols))
	}
	result := NewDenseVector[T](m.rows)
	for i := 0; i < m.rows; i++ {
		var sum T
		for j := 0; j < m.cols; j++ {
			sum += m.Get(i, j) * x.Get(j)
		}
		result.Set(i, sum)
	}
	return result
}

// String 格式化字符串输出
func (m *denseMatrix[T]) String() string {
	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			fmt.Fprintf(&sb, "%10.4g ", m.Get(i, j))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Mul 矩阵乘法 C = A*B
func Mul[T Number](a, b Matrix[T]) Matrix[T] {
	if a.Cols() != b.Rows() {
		panic(fmt.Sprintf("mul dimension mismatch: %dx%d * %dx%d", a.Rows(), a.Cols(), b.Rows(), b.Cols()))
	}
	c := NewDenseMatrix[T](a.Rows(), b.Cols())
	for i := 0; i < a.Rows(); i++ {
		for k := 0; k < a.Cols(); k++ {
			aik := a.Get(i, k)
			if aik == 0 {
				continue
			}
			for j := 0; j < b.Cols(); j++ {
				c.Increment(i, j, aik*b.Get(k, j))
			}
		}
	}
	return c
}

// MulChain 连乘 A1*A2*...*An
func MulChain[T Number](first Matrix[T], rest ...Matrix[T]) Matrix[T] {
	out := first
	for _, m := range rest {
		out = Mul(out, m)
	}
	return out
}

// Add 矩阵加法 C = A+B
func Add[T Number](a, b Matrix[T]) Matrix[T] {
	return combine(a, b, 1)
}

// Sub 矩阵减法 C = A-B
func Sub[T Number](a, b Matrix[T]) Matrix[T] {
	return combine(a, b, -1)
}

func combine[T Number](a, b Matrix[T], sign T) Matrix[T] {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		panic(fmt.Sprintf("add dimension mismatch: %dx%d vs %dx%d", a.Rows(), a.Cols(), b.Rows(), b.Cols()))
	}
	c := NewDenseMatrix[T](a.Rows(), a.Cols())
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			c.Set(i, j, a.Get(i, j)+sign*b.Get(i, j))
		}
	}
	return c
}

// Scale 数乘 C = s*A
func Scale[T Number](s T, a Matrix[T]) Matrix[T] {
	c := NewDenseMatrix[T](a.Rows(), a.Cols())
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			c.Set(i, j, s*a.Get(i, j))
		}
	}
	return c
}

// Column 取出第col列为向量
func Column[T Number](a Matrix[T], col int) Vector[T] {
	v := NewDenseVector[T](a.Rows())
	for i := 0; i < a.Rows(); i++ {
		v.Set(i, a.Get(i, col))
	}
	return v
}

// EqualApprox 判断两个矩阵在容差内相等
func EqualApprox[T Number](a, b Matrix[T], tol float64) bool {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return false
	}
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			if Abs(a.Get(i, j)-b.Get(i, j)) > tol {
				return false
			}
		}
	}
	return true
}
