// Package handle 提供HTTP请求处理器的实现.
package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/dropvault/pkg/rule"
)

func DefaultHandler(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"message": "Not Implemented"})
}

// hashParam 提取并校验路径中的内容哈希（64 位 sha256 十六进制）.
func hashParam(c *gin.Context) (string, error) {
	hash := c.Param("hash")
	if err := rule.ValidateVar(hash, "required,len=64,hexadecimal"); err != nil {
		return "", err
	}

	return hash, nil
}
