// Package config 读取、规范化并校验 TOML 运行配置，并据此构建仿真拓扑与波长网格。
//
// 所有层定义、波长扫描参数、输出与日志选项都从这里取得，下游代码拿到的
// 是已展开的路径、规范化的格式名和清晰的校验错误。
package config
