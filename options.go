package orderhelper

import "go.uber.org/zap"

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	driver   string // "valkey" or "redis"
	addrs    []string
	password string

	rulePaths []ruleRef
	ruleURLs  []ruleRef
	useStore  bool

	keyPrefix      string
	snapshotTTLSec int

	thresholds *Thresholds
	maxCodes   int

	logger *zap.Logger
}

type ruleRef struct {
	location string
	hint     string
}

// Thresholds holds the tunable similarity cutoffs and the confidence floor.
// Zero fields keep their stock values.
type Thresholds struct {
	Floor         float64
	RegionStrong  float64
	RegionWeak    float64
	ContextFuzzy  float64
	KeywordStrong float64
	KeywordWeak   float64
}

// WithValkey connects the rule store and snapshot cache to Valkey.
func WithValkey(addr, password string) Option {
	return func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	}
}

// WithRedis connects the rule store and snapshot cache to Redis.
func WithRedis(addr, password string) Option {
	return func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	}
}

// WithRuleFile adds a local JSON rule document to the catalog sources.
// The hint labels payloads that carry no modality field; pass "" otherwise.
func WithRuleFile(path, hint string) Option {
	return func(c *clientConfig) {
		c.rulePaths = append(c.rulePaths, ruleRef{location: path, hint: hint})
	}
}

// WithRuleURL adds an HTTP(S) rule document to the catalog sources.
func WithRuleURL(url, hint string) Option {
	return func(c *clientConfig) {
		c.ruleURLs = append(c.ruleURLs, ruleRef{location: url, hint: hint})
	}
}

// WithStoreRules reads published per-modality rule documents from the
// configured store as an additional catalog source.
func WithStoreRules() Option {
	return func(c *clientConfig) {
		c.useStore = true
	}
}

// WithKeyPrefix overrides the store key prefix (default "orderhelper:").
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) {
		c.keyPrefix = prefix
	}
}

// WithThresholds overrides the ranking cutoffs.
func WithThresholds(t Thresholds) Option {
	return func(c *clientConfig) {
		c.thresholds = &t
	}
}

// WithMaxCodes caps the number of suggested billing codes.
func WithMaxCodes(n int) Option {
	return func(c *clientConfig) {
		c.maxCodes = n
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}
