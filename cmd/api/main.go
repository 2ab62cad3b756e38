// bookshelf 图书目录服务
//
// @title                       Bookshelf API
// @version                     1.0
// @description                 图书目录：添加/编辑/删除自己的图书，搜索目录，收藏图书
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
