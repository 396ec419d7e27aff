package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
)

var ErrInvalidConfig = errors.New("invalid config")

// DifficultyProfile 一个难度档位：固定搜索深度 + 时间预算
type DifficultyProfile struct {
	Depth        int  `json:"depth"`
	TimeBudgetMs int  `json:"time_budget_ms"`
	MateProbe    bool `json:"mate_probe"` // 正式搜索前先跑一遍连将杀搜索
}

type Config struct {
	Addr              string                       `json:"addr"`
	WebDir            string                       `json:"web_dir"`
	MobileWebDir      string                       `json:"mobile_web_dir"` // 为空时和 WebDir 相同
	DefaultDifficulty string                       `json:"default_difficulty"`
	Difficulties      map[string]DifficultyProfile `json:"difficulties"`
	UseAlphaBeta      bool                         `json:"use_alpha_beta"`
	UseTable          bool                         `json:"use_table"`
	TableCapacity     int                          `json:"table_capacity"`
	MateProbeDepth    int                          `json:"mate_probe_depth"`
	// 关掉剪枝以后 minimax 的深度上限
	MinimaxMaxDepth int  `json:"minimax_max_depth"`
	LogSearchStats  bool `json:"log_search_stats"`
}

func DefaultConfig() Config {
	return Config{
		Addr:              ":2888",
		WebDir:            "./web",
		DefaultDifficulty: "medium",
		Difficulties: map[string]DifficultyProfile{
			"easy":   {Depth: 2, TimeBudgetMs: 500},
			"medium": {Depth: 3, TimeBudgetMs: 1500},
			"hard":   {Depth: 4, TimeBudgetMs: 4000, MateProbe: true},
			"expert": {Depth: 6, TimeBudgetMs: 10000, MateProbe: true},
		},
		UseAlphaBeta:    true,
		UseTable:        true,
		TableCapacity:   1 << 18,
		MateProbeDepth:  7,
		MinimaxMaxDepth: 3,
		LogSearchStats:  true,
	}
}

// Validate 检查配置是否可用
func (c Config) Validate() error {
	if len(c.Difficulties) == 0 {
		return fmt.Errorf("%w: no difficulties", ErrInvalidConfig)
	}
	for name, p := range c.Difficulties {
		if p.Depth <= 0 {
			return fmt.Errorf("%w: difficulty %q has depth %d", ErrInvalidConfig, name, p.Depth)
		}
		if p.TimeBudgetMs < 0 {
			return fmt.Errorf("%w: difficulty %q has negative time budget", ErrInvalidConfig, name)
		}
	}
	if _, ok := c.Difficulties[c.DefaultDifficulty]; !ok {
		return fmt.Errorf("%w: unknown default difficulty %q", ErrInvalidConfig, c.DefaultDifficulty)
	}
	if c.TableCapacity <= 0 {
		return fmt.Errorf("%w: table_capacity must be positive", ErrInvalidConfig)
	}
	if c.MinimaxMaxDepth <= 0 {
		return fmt.Errorf("%w: minimax_max_depth must be positive", ErrInvalidConfig)
	}
	return nil
}

// DifficultyNames 按搜索深度从浅到深排序
func (c Config) DifficultyNames() []string {
	names := make([]string, 0, len(c.Difficulties))
	for name := range c.Difficulties {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := c.Difficulties[names[i]], c.Difficulties[names[j]]
		if a.Depth != b.Depth {
			return a.Depth < b.Depth
		}
		return names[i] < names[j]
	})
	return names
}

// Load 读取 JSON 配置；文件里没写的字段保持默认值。path 为空时直接返回默认配置。
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

type Store struct {
	mu     sync.RWMutex
	config Config
}

func NewStore(cfg Config) *Store {
	return &Store{config: cfg}
}

func (s *Store) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Update 校验通过才替换
func (s *Store) Update(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
	return nil
}
