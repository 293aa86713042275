package stack

import (
	"thinfilm/maths"
	"thinfilm/mode"
)

// SMatrix 散射矩阵，振幅以切向电场计
//
//	Rtop  从上方入射的反射
//	Tdown 从上方入射向下的透射
//	Rbot  从下方入射的反射
//	Tup   从下方入射向上的透射
type SMatrix struct {
	Rtop, Tdown, Rbot, Tup maths.Matrix[complex128]
}

// Identity 星积的单位元：无反射，全透射
func Identity(n int) *SMatrix {
	return &SMatrix{
		Rtop:  maths.NewDenseMatrix[complex128](n, n),
		Tdown: maths.NewIdentity[complex128](n),
		Rbot:  maths.NewDenseMatrix[complex128](n, n),
		Tup:   maths.NewIdentity[complex128](n),
	}
}

// Size 模式数
func (s *SMatrix) Size() int {
	return s.Rtop.Rows()
}

// Interface 下层 a 与上层 b 之间界面的散射矩阵
//
// 切向 E、H 连续，O 将 b 的模式系数投影到 a 的模式上：
//
//	O(d_b + u_b) = d_a + u_a
//	O·Y_b(u_b − d_b) = Y_a(u_a − d_a)
//
// 记 M = O·Y_b + Y_a·O，则
//
//	Rtop = M⁻¹(O·Y_b − Y_a·O)   Tdown = O(I + Rtop)
//	Tup  = M⁻¹·2Y_a              Rbot  = O·Tup − I
func Interface(a, b *mode.Solution) (*SMatrix, error) {
	o, err := mode.Overlap(b, a)
	if err != nil {
		return nil, err
	}
	n := a.NumModes()
	oyb := maths.Mul(o, b.AdmittanceMatrix())
	yao := maths.Mul(a.AdmittanceMatrix(), o)

	lu, err := maths.NewLU[complex128](n)
	if err != nil {
		return nil, err
	}
	if err := lu.Decompose(maths.Add(oyb, yao)); err != nil {
		return nil, err
	}
	rtop, err := lu.SolveMatrix(maths.Sub(oyb, yao))
	if err != nil {
		return nil, err
	}
	tup, err := lu.SolveMatrix(maths.Scale(2, a.AdmittanceMatrix()))
	if err != nil {
		return nil, err
	}
	id := maths.NewIdentity[complex128](n)
	return &SMatrix{
		Rtop:  rtop,
		Tdown: maths.Mul(o, maths.Add(id, rtop)),
		Rbot:  maths.Sub(maths.Mul(o, tup), id),
		Tup:   tup,
	}, nil
}

// Propagation 有限厚度层内传播的散射矩阵，只有对角相位项
func Propagation(s *mode.Solution) *SMatrix {
	n := s.NumModes()
	p := s.PhaseMatrix()
	return &SMatrix{
		Rtop:  maths.NewDenseMatrix[complex128](n, n),
		Tdown: p,
		Rbot:  maths.NewDenseMatrix[complex128](n, n),
		Tup:   p,
	}
}

// Star Redheffer 星积，a 在下、b 在上
// 层间多次反射的几何级数以 LU 求解代替求和
func Star(a, b *SMatrix) (*SMatrix, error) {
	id := maths.NewIdentity[complex128](a.Size())
	// 向下：(I − Rbot_b·Rtop_a)⁻¹·Tdown_b
	down, err := maths.Solve(maths.Sub(id, maths.Mul(b.Rbot, a.Rtop)), b.Tdown)
	if err != nil {
		return nil, err
	}
	// 向上：(I − Rtop_a·Rbot_b)⁻¹·Tup_a
	up, err := maths.Solve(maths.Sub(id, maths.Mul(a.Rtop, b.Rbot)), a.Tup)
	if err != nil {
		return nil, err
	}
	return &SMatrix{
		Rtop:  maths.Add(b.Rtop, maths.MulChain(b.Tup, a.Rtop, down)),
		Tdown: maths.Mul(a.Tdown, down),
		Rbot:  maths.Add(a.Rbot, maths.MulChain(a.Tdown, b.Rbot, up)),
		Tup:   maths.Mul(b.Tup, up),
	}, nil
}

// StarAll 依次从下到上做星积
func StarAll(first *SMatrix, rest ...*SMatrix) (*SMatrix, error) {
	out := first
	for _, s := range rest {
		var err error
		if out, err = Star(out, s); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// apply 矩阵乘向量
func apply(m maths.Matrix[complex128], x []complex128) []complex128 {
	return m.MatrixVectorMultiply(maths.NewDenseVectorWithData(x)).ToDense()
}
