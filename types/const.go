package types

// 默认参数常量定义
var (
	Tolerance        = 1e-6  // 能量守恒容差
	DegenerateKz     = 1e-9  // k_z 相对 k0 的判零阈值（掠射/瑞利异常）
	PropagatingTol   = 1e-12 // k_z 虚部相对 k0 的判零阈值（传播/倏逝分类）
	DefaultWorkers   = 2     // 默认并行波长数
	DefaultMaxOrder  = 1     // 默认平面波截断阶数
	DefaultIncidence = 1.0   // 默认入射介质折射率
)
