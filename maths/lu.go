package maths

import (
	"errors"
	"fmt"
)

// NewLU 创建稠密矩阵LU分解器（输入矩阵维度n）
// 参数:
//
//	n - 矩阵维度（必须为正整数）
//
// 返回:
//
//	LU接口实例，错误信息
func NewLU[T Number](n int) (LU[T], error) {
	if n < 1 {
		return nil, errors.New("lu dimension must be positive")
	}
	return &luDense[T]{
		n:        n,
		L:        NewDenseMatrix[T](n, n),
		U:        NewDenseMatrix[T](n, n),
		Y:        NewDenseVector[T](n),
		P:        make([]int, n),
		pinverse: make([]int, n),
	}, nil
}

// luDense 稠密矩阵LU分解实现（PA=LU，带部分主元）
//
//	P - 置换矩阵（用向量表示）
//	L - 单位下三角矩阵（对角线为1）
//	U - 上三角矩阵
type luDense[T Number] struct {
	n        int       // 矩阵维度（方阵n×n）
	L        Matrix[T] // 下三角矩阵L（严格下三角存储消元因子）
	U        Matrix[T] // 上三角矩阵U
	Y        Vector[T] // 中间变量：存储前向替换结果Ly=Pb
	P        []int     // 置换向量：P[i] = 分解后第i行对应的原始矩阵行索引
	pinverse []int     // 逆置换向量
	scale    float64   // 输入矩阵最大元素模，用于相对判零
	minPivot float64   // 分解过程中最小主元模
	maxPivot float64   // 分解过程中最大主元模
	ready    bool      // 是否已完成分解
}

// init 初始化置换向量和L矩阵的对角线
func (lu *luDense[T]) init(matrix Matrix[T]) {
	lu.L.Zero()
	lu.U.Zero()
	matrix.Copy(lu.U) // 将A拷贝到U，后续在U上进行原位消元
	for i := 0; i < lu.n; i++ {
		lu.P[i] = i
		lu.pinverse[i] = i
		lu.L.Set(i, i, 1)
	}
	lu.scale = matrix.MaxAbs()
	lu.minPivot, lu.maxPivot = 0, 0
	lu.ready = false
}

// updatePermutation 更新置换向量（交换并同步更新逆置换）
func (lu *luDense[T]) updatePermutation(k, maxRow int) {
	lu.P[k], lu.P[maxRow] = lu.P[maxRow], lu.P[k]
	lu.pinverse[lu.P[k]] = k
	lu.pinverse[lu.P[maxRow]] = maxRow
}

// Decompose 执行稠密矩阵LU分解（高斯消元+部分主元）
//
// 主元按模选取，复数矩阵同样适用。主元模相对输入矩阵最大元素
// 小于 Epsilon 时返回 ErrSingular。
func (lu *luDense[T]) Decompose(matrix Matrix[T]) error {
	if !matrix.IsSquare() || matrix.Rows() != lu.n {
		return fmt.Errorf("lu dense decompose: %w", ErrDimension)
	}
	lu.init(matrix)
	if lu.scale == 0 {
		return fmt.Errorf("lu dense decompose: zero matrix: %w", ErrSingular)
	}

	for k := 0; k < lu.n; k++ {
		// 部分主元选择
		maxRow := k
		maxAbsVal := Abs(lu.U.Get(k, k))
		for i := k + 1; i < lu.n; i++ {
			if v := Abs(lu.U.Get(i, k)); v > maxAbsVal {
				maxAbsVal = v
				maxRow = i
			}
		}
		if maxAbsVal < Epsilon*lu.scale {
			return fmt.Errorf("lu dense decompose: pivot %d is %.3g: %w", k, maxAbsVal, ErrSingular)
		}
		if k == 0 || maxAbsVal < lu.minPivot {
			lu.minPivot = maxAbsVal
		}
		if maxAbsVal > lu.maxPivot {
			lu.maxPivot = maxAbsVal
		}

		// 行交换（只交换L中已填充的消元因子）
		if maxRow != k {
			lu.U.SwapRows(k, maxRow)
			for j := 0; j < k; j++ {
				val1 := lu.L.Get(k, j)
				lu.L.Set(k, j, lu.L.Get(maxRow, j))
				lu.L.Set(maxRow, j, val1)
			}
			lu.updatePermutation(k, maxRow)
		}

		// 高斯消元
		pivotVal := lu.U.Get(k, k)
		for i := k + 1; i < lu.n; i++ {
			uik := lu.U.Get(i, k)
			if uik == 0 {
				continue
			}
			factor := uik / pivotVal
			lu.L.Set(i, k, factor)
			lu.U.Set(i, k, 0)
			for j := k + 1; j < lu.n; j++ {
				lu.U.Set(i, j, lu.U.Get(i, j)-factor*lu.U.Get(k, j))
			}
		}
	}
	lu.ready = true
	return nil
}

// SolveReuse 利用分解结果求解Ax=b（重用预分配向量）
//
//  1. 前向替换：求解Ly = Pb
//  2. 后向替换：求解Ux = y
func (lu *luDense[T]) SolveReuse(b, x Vector[T]) error {
	if !lu.ready {
		return errors.New("lu dense solve: matrix not decomposed")
	}
	if b.Length() != lu.n || x.Length() != lu.n {
		return fmt.Errorf("lu dense solve: vector %w", ErrDimension)
	}

	lu.Y.Zero()
	for i := 0; i < lu.n; i++ {
		sum := b.Get(lu.P[i])
		for j := 0; j < i; j++ {
			sum -= lu.L.Get(i, j) * lu.Y.Get(j)
		}
		lu.Y.Set(i, sum)
	}

	x.Zero()
	for i := lu.n - 1; i >= 0; i-- {
		sum := lu.Y.Get(i)
		for j := i + 1; j < lu.n; j++ {
			sum -= lu.U.Get(i, j) * x.Get(j)
		}
		diagVal := lu.U.Get(i, i)
		if Abs(diagVal) == 0 {
			return fmt.Errorf("lu dense solve: zero diagonal at %d: %w", i, ErrSingular)
		}
		x.Set(i, sum/diagVal)
	}
	return nil
}

// SolveMatrix 逐列求解 AX=B
func (lu *luDense[T]) SolveMatrix(b Matrix[T]) (Matrix[T], error) {
	if b.Rows() != lu.n {
		return nil, fmt.Errorf("lu dense solve matrix: %w", ErrDimension)
	}
	out := NewDenseMatrix[T](lu.n, b.Cols())
	x := NewDenseVector[T](lu.n)
	for col := 0; col < b.Cols(); col++ {
		if err := lu.SolveReuse(Column(b, col), x); err != nil {
			return nil, err
		}
		for i := 0; i < lu.n; i++ {
			out.Set(i, col, x.Get(i))
		}
	}
	return out, nil
}

// Inverse 计算逆矩阵（对单位矩阵逐列求解）
func (lu *luDense[T]) Inverse() (Matrix[T], error) {
	return lu.SolveMatrix(NewIdentity[T](lu.n))
}

// Condition 返回最小主元与最大主元模之比，越接近0越病态
func (lu *luDense[T]) Condition() float64 {
	if !lu.ready || lu.maxPivot == 0 {
		return 0
	}
	return lu.minPivot / lu.maxPivot
}

// Solve 求解 AX=B 的便捷函数
func Solve[T Number](a, b Matrix[T]) (Matrix[T], error) {
	lu, err := NewLU[T](a.Rows())
	if err != nil {
		return nil, err
	}
	if err := lu.Decompose(a); err != nil {
		return nil, err
	}
	return lu.SolveMatrix(b)
}

// Inverse 计算方阵逆矩阵的便捷函数
func Inverse[T Number](a Matrix[T]) (Matrix[T], error) {
	if !a.IsSquare() {
		return nil, fmt.Errorf("inverse of %dx%d: %w", a.Rows(), a.Cols(), ErrDimension)
	}
	return Solve(a, NewIdentity[T](a.Rows()))
}
