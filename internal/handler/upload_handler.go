package handler

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	// webp 封面也允许上传，注册解码器用于尺寸探测。
	_ "golang.org/x/image/webp"
)

// UploadImage 处理图片上传请求，返回可作为 featuredImage 使用的 URL。
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "未找到上传的图片"})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"message": "只允许上传图片文件"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "无法读取上传的图片"})
		return
	}
	cfg, _, err := image.DecodeConfig(src)
	src.Close()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "图片格式无法识别"})
		return
	}

	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "创建上传目录失败"})
		return
	}

	ext := filepath.Ext(file.Filename)
	newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	filePath := filepath.Join(a.uploadDir, newFilename)

	if err := c.SaveUploadedFile(file, filePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "保存文件失败"})
		return
	}

	fileURL := fmt.Sprintf("%s/%s", strings.TrimSuffix(a.uploadURL, "/"), newFilename)
	c.JSON(http.StatusOK, gin.H{
		"url":    fileURL,
		"width":  cfg.Width,
		"height": cfg.Height,
	})
}
