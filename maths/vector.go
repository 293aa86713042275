package maths

import (
	"fmt"
	"strings"
)

// denseVector 稠密向量实现
// 基于 dataManager 实现 Vector 接口
type denseVector[T Number] struct {
	*dataManager[T]
}

// NewDenseVector 创建新的稠密向量
func NewDenseVector[T Number](length int) Vector[T] {
	return &denseVector[T]{
		dataManager: newDataManager[T](length),
	}
}

// NewDenseVectorWithData 从现有数据创建稠密向量（共享底层切片）
func NewDenseVectorWithData[T Number](data []T) Vector[T] {
	return &denseVector[T]{
		dataManager: newDataManagerWithData(data),
	}
}

// BuildFromDense 从稠密向量构建向量
func (v *denseVector[T]) BuildFromDense(dense []T) {
	if len(dense) != v.Length() {
		panic("dimension mismatch")
	}
	copy(v.data, dense)
}

// Copy 将自身值复制到 a 向量
func (v *denseVector[T]) Copy(a Vector[T]) {
	if a.Length() != v.Length() {
		panic("vector dimension mismatch")
	}
	switch target := a.(type) {
	case *denseVector[T]:
		v.dataManager.Copy(target.dataManager)
	default:
		for i := 0; i < v.Length(); i++ {
			a.Set(i, v.Get(i))
		}
	}
}

// String 返回向量的字符串表示
func (v *denseVector[T]) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < v.Length(); i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%.4g", v.Get(i))
	}
	sb.WriteString("]")
	return sb.String()
}

// ToDense 转换为稠密切片
func (v *denseVector[T]) ToDense() []T {
	return v.DataCopy()
}

// DotProduct 计算与另一个向量的点积
func (v *denseVector[T]) DotProduct(other Vector[T]) T {
	if other.Length() != v.Length() {
		panic("vector dimension mismatch")
	}
	var result T
	for i := 0; i < v.Length(); i++ {
		result += v.Get(i) * other.Get(i)
	}
	return result
}

// Scale 向量缩放
func (v *denseVector[T]) Scale(scalar T) {
	for i := range v.data {
		v.data[i] *= scalar
	}
}

// Add 向量加法
func (v *denseVector[T]) Add(other Vector[T]) {
	if other.Length() != v.Length() {
		panic("vector dimension mismatch")
	}
	for i := 0; i < v.Length(); i++ {
		v.Increment(i, other.Get(i))
	}
}
