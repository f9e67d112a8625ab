package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Host           string
	Port           int
	AllowOrigins   []string
	LogLevel       string
	LogFile        string
	MaxUploadMB    int
	CataloguePath  string
	RulesPath      string
	ReportDir      string
	MatchThreshold float64
}

func Load() Config {
	port, _ := strconv.Atoi(getenv("PORT", "8084"))
	mb, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "64"))
	threshold, err := strconv.ParseFloat(getenv("MATCH_THRESHOLD", "0.7"), 64)
	if err != nil || threshold <= 0 || threshold > 1 {
		threshold = 0.7
	}
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	return Config{
		Host:           getenv("HOST", "127.0.0.1"),
		Port:           port,
		AllowOrigins:   origins,
		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogFile:        getenv("LOG_FILE", "logs/marketplace-recon.log"),
		MaxUploadMB:    mb,
		CataloguePath:  getenv("CATALOGUE_PATH", "data/input/cms_product_catalogue.csv"),
		RulesPath:      getenv("RULES_PATH", "data/input/matching_rules.yaml"),
		ReportDir:      getenv("REPORT_DIR", "data/reports"),
		MatchThreshold: threshold,
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
