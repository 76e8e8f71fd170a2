package service

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
)

const uploadURLPrefix = "/uploads/"

var allowedUploadScenes = map[string]struct{}{
	constants.UploadSceneProduct: {},
	constants.UploadSceneCommon:  {},
}

// UploadService 文件上传服务
type UploadService struct {
	cfg *config.UploadConfig
}

// NewUploadService 创建文件上传服务实例
func NewUploadService(cfg *config.UploadConfig) *UploadService {
	if cfg == nil {
		cfg = &config.UploadConfig{}
	}
	return &UploadService{cfg: cfg}
}

func (s *UploadService) rootDir() string {
	dir := strings.TrimSpace(s.cfg.Dir)
	if dir == "" {
		return "uploads"
	}
	return dir
}

// SaveFile 校验并保存上传文件，返回 /uploads/<scene>/YYYY/MM/<uuid>.ext
func (s *UploadService) SaveFile(file *multipart.FileHeader, scene string) (string, error) {
	if file == nil {
		return "", fmt.Errorf("%w: file is required", ErrUploadInvalid)
	}
	if s.cfg.MaxSize > 0 && file.Size > s.cfg.MaxSize {
		return "", fmt.Errorf("%w: file exceeds %d MB", ErrUploadInvalid, s.cfg.MaxSize/1024/1024)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(s.cfg.AllowedExtensions) > 0 {
		if ext == "" || !isAllowedExtension(ext, s.cfg.AllowedExtensions) {
			return "", fmt.Errorf("%w: extension %q not allowed", ErrUploadInvalid, ext)
		}
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	contentType := http.DetectContentType(buffer[:n])
	if len(s.cfg.AllowedTypes) > 0 && !containsFold(s.cfg.AllowedTypes, contentType) {
		return "", fmt.Errorf("%w: content type %s not allowed", ErrUploadInvalid, contentType)
	}

	if strings.HasPrefix(contentType, "image/") {
		width, height, err := decodeImageDimensions(src, contentType)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUploadInvalid, err)
		}
		if s.cfg.MaxWidth > 0 && width > s.cfg.MaxWidth {
			return "", fmt.Errorf("%w: width exceeds %d", ErrUploadInvalid, s.cfg.MaxWidth)
		}
		if s.cfg.MaxHeight > 0 && height > s.cfg.MaxHeight {
			return "", fmt.Errorf("%w: height exceeds %d", ErrUploadInvalid, s.cfg.MaxHeight)
		}
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	normalizedScene := normalizeUploadScene(scene)
	filename := uuid.NewString() + ext
	now := time.Now()
	year := now.Format("2006")
	month := now.Format("01")
	savePath := filepath.Join(s.rootDir(), normalizedScene, year, month, filename)

	if err := os.MkdirAll(filepath.Dir(savePath), 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(savePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s/%s/%s/%s", uploadURLPrefix, normalizedScene, year, month, filename), nil
}

// ResolveLocalPath 将 /uploads/ 开头的公开路径映射为本地文件路径
func (s *UploadService) ResolveLocalPath(publicPath string) (string, bool) {
	publicPath = strings.TrimSpace(publicPath)
	if !strings.HasPrefix(publicPath, uploadURLPrefix) {
		return "", false
	}
	relative := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(publicPath, uploadURLPrefix)))
	if relative == "." || strings.HasPrefix(relative, "..") || filepath.IsAbs(relative) {
		return "", false
	}
	return filepath.Join(s.rootDir(), relative), true
}

// RemoveFile 删除上传目录内的文件，外部图片与已不存在的文件直接忽略
func (s *UploadService) RemoveFile(publicPath string) (bool, error) {
	localPath, ok := s.ResolveLocalPath(publicPath)
	if !ok {
		return false, nil
	}
	if err := os.Remove(localPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func normalizeUploadScene(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := allowedUploadScenes[value]; ok {
		return value
	}
	return constants.UploadSceneCommon
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, allowedExt := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(allowedExt))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if strings.EqualFold(ext, normalized) {
			return true
		}
	}
	return false
}

func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(strings.TrimSpace(value), target) {
			return true
		}
	}
	return false
}

func decodeImageDimensions(src io.ReadSeeker, contentType string) (int, int, error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, 0, err
	}
	if strings.EqualFold(contentType, "image/webp") {
		return decodeWebPDimensions(src)
	}
	cfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return 0, 0, fmt.Errorf("decode image failed: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// decodeWebPDimensions 读取 RIFF 块头获取 WebP 尺寸
func decodeWebPDimensions(src io.Reader) (int, int, error) {
	header := make([]byte, 12)
	if _, err := io.ReadFull(src, header); err != nil {
		return 0, 0, err
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WEBP" {
		return 0, 0, errors.New("invalid webp header")
	}

	for {
		chunkHeader := make([]byte, 8)
		if _, err := io.ReadFull(src, chunkHeader); err != nil {
			return 0, 0, err
		}
		chunkType := string(chunkHeader[0:4])
		chunkSize := int(binary.LittleEndian.Uint32(chunkHeader[4:8]))
		data := make([]byte, chunkSize+chunkSize%2)
		if _, err := io.ReadFull(src, data); err != nil {
			return 0, 0, err
		}

		switch chunkType {
		case "VP8X":
			if len(data) < 10 {
				return 0, 0, errors.New("short VP8X chunk")
			}
			width := 1 + int(data[4]) + int(data[5])<<8 + int(data[6])<<16
			height := 1 + int(data[7]) + int(data[8])<<8 + int(data[9])<<16
			return width, height, nil
		case "VP8 ":
			if len(data) < 10 {
				return 0, 0, errors.New("short VP8 chunk")
			}
			width := int(binary.LittleEndian.Uint16(data[6:8]) & 0x3FFF)
			height := int(binary.LittleEndian.Uint16(data[8:10]) & 0x3FFF)
			return width, height, nil
		case "VP8L":
			if len(data) < 5 || data[0] != 0x2f {
				return 0, 0, errors.New("invalid VP8L chunk")
			}
			bits := binary.LittleEndian.Uint32(data[1:5])
			return int(bits&0x3FFF) + 1, int((bits>>14)&0x3FFF) + 1, nil
		}
	}
}
