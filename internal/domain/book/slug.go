package book

import (
	"strconv"
	"strings"
	"unicode"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultSlugMaxLength 与books.slug列长度一致
	DefaultSlugMaxLength = 100
	// DefaultSlugMaxAttempts 计数后缀最多探测次数
	DefaultSlugMaxAttempts = 1000

	emptySlug        = "book"
	fallbackAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	fallbackLength   = 8
)

// reservedSlugs 与固定路由同名的slug(/books/add、/books/user...)，视为已占用
var reservedSlugs = map[string]struct{}{
	"add":        {},
	"user":       {},
	"search":     {},
	"favourites": {},
}

// Slugify 标题 → URL安全的slug
// 规则:
// 1. NFKD分解后丢弃非ASCII字符(é → e，中文整体丢弃)
// 2. 转小写，只保留字母、数字、下划线、空白和连字符
// 3. 连续的空白/连字符合并为一个"-"，去掉首尾的"-"和"_"
// 4. 结果为空时使用"book"，超过最大长度时截断
func Slugify(title string) string {
	return slugify(title, DefaultSlugMaxLength)
}

func slugify(title string, maxLen int) string {
	var b strings.Builder
	sep := false
	for _, r := range norm.NFKD.String(title) {
		if r > unicode.MaxASCII {
			continue
		}
		r = unicode.ToLower(r)
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			if sep && b.Len() > 0 {
				b.WriteByte('-')
			}
			sep = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			sep = true
		}
	}

	s := trimSlug(b.String())
	if len(s) > maxLen {
		s = trimSlug(s[:maxLen])
	}
	if s == "" {
		return emptySlug
	}
	return s
}

func trimSlug(s string) string {
	return strings.Trim(s, "-_")
}

// GenerateSlug 根据标题和已占用的slug集合生成唯一slug
// 标题slug可用则直接返回，否则依次尝试base-1、base-2…
// 纯函数：相同输入得到相同输出(探测耗尽走随机后缀的情况除外)
func GenerateSlug(title string, existing map[string]struct{}) string {
	slug, _ := NewSlugGenerator(DefaultSlugMaxLength, DefaultSlugMaxAttempts).Generate(title, existing)
	return slug
}

// SlugGenerator slug生成器
// 设计说明:
// 1. 计数探测有上限(maxAttempts)，耗尽后追加8位随机后缀，避免热门书名导致无限循环
// 2. 追加后缀时截断base，保证总长度不超过maxLength
type SlugGenerator struct {
	maxLength   int
	maxAttempts int
	random      func() string

	// OnGenerate 每次生成后回调(探测次数、是否使用随机后缀)，用于上报指标
	OnGenerate func(probes int, fallback bool)
}

// NewSlugGenerator 创建slug生成器，非法参数使用默认值
func NewSlugGenerator(maxLength, maxAttempts int) *SlugGenerator {
	if maxLength <= fallbackLength+1 {
		maxLength = DefaultSlugMaxLength
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultSlugMaxAttempts
	}
	return &SlugGenerator{
		maxLength:   maxLength,
		maxAttempts: maxAttempts,
		random: func() string {
			return gonanoid.MustGenerate(fallbackAlphabet, fallbackLength)
		},
	}
}

// Base 标题对应的基础slug(候选集合查询的前缀)
func (g *SlugGenerator) Base(title string) string {
	return slugify(title, g.maxLength)
}

// CandidatePrefix 所有候选slug共有的最短前缀
// base足够短时追加任何后缀都不截断，候选都是base或base-xxx，返回base；
// 否则后缀越长base被截得越短，返回按最长后缀截断后的base，
// 候选集合必须按这个前缀查询，才能看到被截断过的已用slug
func (g *SlugGenerator) CandidatePrefix(base string) string {
	limit := g.maxLength - g.maxSuffixLength() - 1
	if len(base) <= limit {
		return base
	}
	return trimSlug(base[:limit])
}

// maxSuffixLength 计数后缀和随机后缀中较长者的长度
func (g *SlugGenerator) maxSuffixLength() int {
	if n := len(strconv.Itoa(g.maxAttempts)); n > fallbackLength {
		return n
	}
	return fallbackLength
}

// Generate 生成唯一slug，返回slug和探测的候选数量
func (g *SlugGenerator) Generate(title string, existing map[string]struct{}) (string, int) {
	base := g.Base(title)
	taken := func(s string) bool {
		if _, ok := reservedSlugs[s]; ok {
			return true
		}
		_, ok := existing[s]
		return ok
	}

	probes := 1
	if !taken(base) {
		g.report(probes, false)
		return base, probes
	}

	for i := 1; i <= g.maxAttempts; i++ {
		probes++
		candidate := g.withSuffix(base, strconv.Itoa(i))
		if !taken(candidate) {
			g.report(probes, false)
			return candidate, probes
		}
	}

	for {
		probes++
		candidate := g.withSuffix(base, g.random())
		if !taken(candidate) {
			g.report(probes, true)
			return candidate, probes
		}
	}
}

// withSuffix base-suffix，必要时截断base
func (g *SlugGenerator) withSuffix(base, suffix string) string {
	limit := g.maxLength - len(suffix) - 1
	if len(base) > limit {
		base = trimSlug(base[:limit])
		if base == "" {
			base = emptySlug
		}
	}
	return base + "-" + suffix
}

func (g *SlugGenerator) report(probes int, fallback bool) {
	if g.OnGenerate != nil {
		g.OnGenerate(probes, fallback)
	}
}
