package artifact

import (
	"encoding/gob"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/muaazl/cine-match/internal/corpus"
	"github.com/muaazl/cine-match/internal/model"
	"github.com/muaazl/cine-match/internal/quiz"
)

const (
	buildsDir    = "builds"
	currentFile  = "CURRENT"
	corpusFile   = "corpus.gob"
	matrixFile   = "similarity.gob"
	quizFile     = "quiz.gob"
	manifestFile = "manifest.json"
	tmpSuffix    = ".tmp"
)

// KeepBuilds 保留的历史构建数（含当前）
const KeepBuilds = 2

// ErrNoBuild 目录下还没有任何已完成的构建
var ErrNoBuild = errors.New("no artifact build available")

// Save 写入一次完整构建并切换 CURRENT
// 先写入 builds/<id>.tmp，完整落盘后重命名，最后用临时文件 + rename 替换 CURRENT，
// 读取方任何时刻都只能看到完整的构建。
func Save(dir string, b *corpus.Bundle) (string, error) {
	if b == nil || b.Matrix == nil {
		return "", fmt.Errorf("产物不完整")
	}
	if b.Matrix.N != len(b.Items) {
		return "", fmt.Errorf("矩阵维度 %d 与语料条数 %d 不一致", b.Matrix.N, len(b.Items))
	}

	root := filepath.Join(dir, buildsDir)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("创建产物目录失败: %w", err)
	}

	id := uniqueID(root, b.Manifest.BuildID)
	b.Manifest.BuildID = id
	tmp := filepath.Join(root, id+tmpSuffix)
	if err := os.RemoveAll(tmp); err != nil {
		return "", err
	}
	if err := os.MkdirAll(tmp, 0o755); err != nil {
		return "", fmt.Errorf("创建临时目录失败: %w", err)
	}

	if err := writeBuild(tmp, b); err != nil {
		os.RemoveAll(tmp)
		return "", err
	}

	final := filepath.Join(root, id)
	if err := os.Rename(tmp, final); err != nil {
		os.RemoveAll(tmp)
		return "", fmt.Errorf("发布构建失败: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(dir, currentFile), []byte(id+"\n")); err != nil {
		return "", fmt.Errorf("切换 CURRENT 失败: %w", err)
	}

	log.Printf("[Artifact] 构建 %s 已发布 (%d 条)", id, len(b.Items))
	prune(root, id)
	return id, nil
}

// Load 读取 CURRENT 指向的构建
func Load(dir string) (*corpus.Bundle, error) {
	id, err := CurrentID(dir)
	if err != nil {
		return nil, err
	}
	return LoadBuild(dir, id)
}

// LoadBuild 读取指定构建
func LoadBuild(dir, id string) (*corpus.Bundle, error) {
	path := filepath.Join(dir, buildsDir, id)

	b := &corpus.Bundle{}
	raw, err := os.ReadFile(filepath.Join(path, manifestFile))
	if err != nil {
		return nil, fmt.Errorf("读取 manifest 失败: %w", err)
	}
	if err := json.Unmarshal(raw, &b.Manifest); err != nil {
		return nil, fmt.Errorf("解析 manifest 失败: %w", err)
	}

	var items []model.ItemRecord
	if err := readGob(filepath.Join(path, corpusFile), &items); err != nil {
		return nil, err
	}
	var matrix corpus.SimilarityMatrix
	if err := readGob(filepath.Join(path, matrixFile), &matrix); err != nil {
		return nil, err
	}
	var idx quiz.Index
	if err := readGob(filepath.Join(path, quizFile), &idx); err != nil {
		return nil, err
	}

	if matrix.N != len(items) || len(matrix.Data) != matrix.N*matrix.N {
		return nil, fmt.Errorf("构建 %s 已损坏: 矩阵 %d 与语料 %d 不一致", id, matrix.N, len(items))
	}

	b.Items = items
	b.Matrix = &matrix
	b.Quiz = idx
	return b, nil
}

// CurrentID 当前构建 ID
func CurrentID(dir string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(dir, currentFile))
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoBuild
	}
	if err != nil {
		return "", fmt.Errorf("读取 CURRENT 失败: %w", err)
	}
	id := strings.TrimSpace(string(raw))
	if id == "" {
		return "", ErrNoBuild
	}
	return id, nil
}

func writeBuild(path string, b *corpus.Bundle) error {
	if err := writeGob(filepath.Join(path, corpusFile), b.Items); err != nil {
		return err
	}
	if err := writeGob(filepath.Join(path, matrixFile), b.Matrix); err != nil {
		return err
	}
	if err := writeGob(filepath.Join(path, quizFile), b.Quiz); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(b.Manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化 manifest 失败: %w", err)
	}
	return os.WriteFile(filepath.Join(path, manifestFile), raw, 0o644)
}

func writeGob(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("写入 %s 失败: %w", filepath.Base(path), err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readGob(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("打开 %s 失败: %w", filepath.Base(path), err)
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("解析 %s 失败: %w", filepath.Base(path), err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	return os.Rename(name, path)
}

func uniqueID(root, base string) string {
	if base == "" {
		base = "build"
	}
	id := base
	for n := 1; ; n++ {
		if _, err := os.Stat(filepath.Join(root, id)); errors.Is(err, os.ErrNotExist) {
			return id
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
}

// prune 删除超出保留数量的旧构建和残留的临时目录
func prune(root, current string) {
	entries, err := os.ReadDir(root)
	if err != nil {
		log.Printf("[Artifact] 清理旧构建失败: %v", err)
		return
	}

	var builds []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, tmpSuffix) {
			os.RemoveAll(filepath.Join(root, name))
			continue
		}
		builds = append(builds, name)
	}
	sort.Strings(builds)

	for len(builds) > KeepBuilds {
		old := builds[0]
		builds = builds[1:]
		if old == current {
			continue
		}
		if err := os.RemoveAll(filepath.Join(root, old)); err != nil {
			log.Printf("[Artifact] 删除旧构建 %s 失败: %v", old, err)
			continue
		}
		log.Printf("[Artifact] 已删除旧构建 %s", old)
	}
}
