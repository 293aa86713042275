package maths

import (
	"fmt"
)

// dataManager 一维数据管理器（底层存储核心）
type dataManager[T Number] struct {
	data []T
}

// newDataManager 创建一个指定长度的新的 dataManager。
func newDataManager[T Number](length int) *dataManager[T] {
	return &dataManager[T]{
		data: make([]T, length),
	}
}

// newDataManagerWithData 使用给定的数据切片创建一个新的 dataManager。
func newDataManagerWithData[T Number](data []T) *dataManager[T] {
	return &dataManager[T]{
		data: data,
	}
}

// Length 返回数据的长度。
func (dm *dataManager[T]) Length() int {
	return len(dm.data)
}

// String 返回数据的字符串表示形式。
func (dm *dataManager[T]) String() string {
	return fmt.Sprintf("%v", dm.data)
}

// Get 返回指定索引处的值。
func (dm *dataManager[T]) Get(index int) T {
	return dm.data[index]
}

// Set 设置指定索引处的值。
func (dm *dataManager[T]) Set(index int, value T) {
	dm.data[index] = value
}

// Increment 增加指定索引处的值。
func (dm *dataManager[T]) Increment(index int, value T) {
	dm.data[index] += value
}

// DataCopy 返回数据切片的副本。
func (dm *dataManager[T]) DataCopy() []T {
	cpy := make([]T, len(dm.data))
	copy(cpy, dm.data)
	return cpy
}

// DataPtr 返回数据切片引用。
// 注意：直接修改返回的切片会影响原始数据。
func (dm *dataManager[T]) DataPtr() []T {
	return dm.data
}

// Zero 将所有元素设置为零。
func (dm *dataManager[T]) Zero() {
	clear(dm.data)
}

// MaxAbs 返回最大绝对值。
func (dm *dataManager[T]) MaxAbs() float64 {
	maxVal := 0.0
	for _, v := range dm.data {
		if a := Abs(v); a > maxVal {
			maxVal = a
		}
	}
	return maxVal
}

// Copy 将数据复制到另一个 dataManager。
func (dm *dataManager[T]) Copy(target *dataManager[T]) {
	if dm.Length() != target.Length() {
		panic("dataManager.Copy: length mismatch")
	}
	copy(target.data, dm.data)
}
