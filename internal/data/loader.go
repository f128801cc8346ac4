// Package data 从文件加载投资组合, 并生成示例组合
package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/opsxjacky/bond-rebalancer/pkg/types"
)

// Loader 组合加载器接口
type Loader interface {
	// Load 读取组合文件
	Load(path string) (types.Portfolio, error)

	// SourceType 支持的数据源类型
	SourceType() string
}

// LoaderFor 按扩展名选择加载器
func LoaderFor(path string) (Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return NewJSONLoader(), nil
	case ".yaml", ".yml":
		return NewYAMLLoader(), nil
	case ".csv":
		return NewCSVLoader(), nil
	default:
		return nil, fmt.Errorf("unsupported portfolio file type: %q", filepath.Ext(path))
	}
}

// LoadFile 按扩展名加载组合文件
func LoadFile(path string) (types.Portfolio, error) {
	loader, err := LoaderFor(path)
	if err != nil {
		return types.Portfolio{}, err
	}
	return loader.Load(path)
}

// JSONLoader JSON组合加载器
type JSONLoader struct{}

// NewJSONLoader 创建JSON加载器
func NewJSONLoader() *JSONLoader {
	return &JSONLoader{}
}

// SourceType 返回数据源类型
func (l *JSONLoader) SourceType() string {
	return "json"
}

// Load 读取JSON组合
func (l *JSONLoader) Load(path string) (types.Portfolio, error) {
	var p types.Portfolio
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("failed to parse JSON portfolio: %w", err)
	}
	return p, nil
}

// YAMLLoader YAML组合加载器
type YAMLLoader struct{}

// NewYAMLLoader 创建YAML加载器
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{}
}

// SourceType 返回数据源类型
func (l *YAMLLoader) SourceType() string {
	return "yaml"
}

// Load 读取YAML组合
func (l *YAMLLoader) Load(path string) (types.Portfolio, error) {
	var p types.Portfolio
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("failed to parse YAML portfolio: %w", err)
	}
	return p, nil
}
