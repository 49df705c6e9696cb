package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MovieFilter 电影列表筛选条件，零值字段不参与过滤
type MovieFilter struct {
	Category string
	Time     *int
	Language string
	Rate     *float64
	Year     *int
	Search   string // 名称模糊匹配，忽略大小写
}

// Key 规范化后的缓存键
func (f MovieFilter) Key() string {
	var b strings.Builder
	b.WriteString("c=" + f.Category)
	b.WriteString("|l=" + f.Language)
	b.WriteString("|s=" + strings.ToLower(f.Search))
	if f.Time != nil {
		b.WriteString("|t=" + strconv.Itoa(*f.Time))
	}
	if f.Rate != nil {
		b.WriteString("|r=" + strconv.FormatFloat(*f.Rate, 'g', -1, 64))
	}
	if f.Year != nil {
		b.WriteString("|y=" + strconv.Itoa(*f.Year))
	}
	return b.String()
}

// Matches 判断电影是否满足全部筛选条件
func (f MovieFilter) Matches(m *Movie) bool {
	if f.Category != "" && m.Category != f.Category {
		return false
	}
	if f.Language != "" && m.Language != f.Language {
		return false
	}
	if f.Time != nil && m.Time != *f.Time {
		return false
	}
	if f.Rate != nil && m.Rate != *f.Rate {
		return false
	}
	if f.Year != nil && m.Year != *f.Year {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// MoviePage 分页结果
type MoviePage struct {
	Movies      []*Movie `json:"movies"`
	Page        int      `json:"page"`
	TotalPages  int      `json:"total_pages"`
	TotalMovies int64    `json:"totalMovies"`
}

// Pagination 页码与每页数量
type Pagination struct {
	Page  int
	Limit int
}

// NewPagination 页码小于 1 视为 1，每页数量至少为 1
func NewPagination(page, limit int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	return Pagination{Page: page, Limit: limit}
}

// Offset 跳过的记录数，页码过大时取上限，结果不会溢出且 Offset()+Limit 仍可表示
func (p Pagination) Offset() int {
	if p.Page-1 > (math.MaxInt-p.Limit)/p.Limit {
		return math.MaxInt - p.Limit
	}
	return (p.Page - 1) * p.Limit
}

// TotalPages ceil(total / limit)
func (p Pagination) TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}

func (p Pagination) String() string {
	return fmt.Sprintf("p=%d|n=%d", p.Page, p.Limit)
}
