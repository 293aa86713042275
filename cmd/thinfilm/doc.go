// Command thinfilm 按 TOML 配置运行多层薄膜的波长扫描，输出汇总表、光谱图与结果归档。
//
//	thinfilm config init -p run.toml
//	thinfilm run -c run.toml
//	thinfilm materials
package main
