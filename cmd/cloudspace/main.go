// Package main 启动应用程序
package main

import "github.com/yeisme/cloudspace/pkg/cmd"

//	@title			CloudSpace API
//	@version		1.0
//	@description	CloudSpace 是一个个人云存储服务，提供预签名直传、回收站、配额统计与文件生命周期管理。

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
