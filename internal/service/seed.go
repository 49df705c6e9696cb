package service

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/user/moviecatalog/internal/model"
)

//go:embed seed/movies.json
var seedData []byte

// seedMovies 解析内置电影数据，按文件顺序递减创建时间，保证列表顺序稳定
func seedMovies() ([]*model.Movie, error) {
	var movies []*model.Movie
	if err := json.Unmarshal(seedData, &movies); err != nil {
		return nil, fmt.Errorf("解析内置电影数据失败: %w", err)
	}
	now := time.Now().UTC()
	for i, m := range movies {
		m.ID = 0
		m.Reviews = nil
		m.CreatedAt = now.Add(-time.Duration(i) * time.Second)
	}
	return movies, nil
}
