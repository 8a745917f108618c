// Package main 启动应用程序
package main

import "github.com/yeisme/dropvault/pkg/cmd"

//	@title			DropVault API
//	@version		0.1.0
//	@description	DropVault 是一个短暂存续、按内容寻址的文件分享服务：上传后以内容 sha256 作为句柄，在过期前可下载或删除。

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

//	@contact.name	yeisme
//	@contact.email	yefun2004@gmail.com.

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
