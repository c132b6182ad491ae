// Package config carrega a configuração do serviço a partir de um arquivo YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config é a configuração completa do serviço.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	LogLevel string         `yaml:"log_level"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// ServerConfig controla o servidor HTTP.
type ServerConfig struct {
	Port                  string `yaml:"port"`
	MaxUploadMB           int64  `yaml:"max_upload_mb"`
	MaxConcurrentRequests int64  `yaml:"max_concurrent_requests"`
}

// DefaultsConfig define os meses retroativos usados quando o formulário não informa.
type DefaultsConfig struct {
	PeriodMonths       int `yaml:"period_months"`
	HabitacionalMonths int `yaml:"habitacional_months"`
	SecondaryMonths    int `yaml:"secondary_months"`
}

// PipelineConfig liga comportamentos opcionais do processamento.
type PipelineConfig struct {
	// DedupByContract reativa a deduplicação por contrato em documentos comuns.
	DedupByContract bool `yaml:"dedup_by_contract"`
}

// Default devolve a configuração usada quando não há arquivo.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                  "8010",
			MaxUploadMB:           50,
			MaxConcurrentRequests: 4,
		},
		LogLevel: "info",
		Defaults: DefaultsConfig{
			PeriodMonths:       1,
			HabitacionalMonths: 2,
			SecondaryMonths:    2,
		},
	}
}

// Load lê o arquivo em path sobre os valores padrão. Arquivo inexistente não é
// erro: a configuração padrão é devolvida.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("erro ao ler configuração %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("erro ao interpretar configuração %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuração inválida em %s: %w", path, err)
	}
	return cfg, nil
}

// Validate confere limites e valores enumerados.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Server.Port) == "" {
		problems = append(problems, "server.port é obrigatório")
	}
	if c.Server.MaxUploadMB <= 0 {
		problems = append(problems, "server.max_upload_mb deve ser positivo")
	}
	if c.Server.MaxConcurrentRequests <= 0 {
		problems = append(problems, "server.max_concurrent_requests deve ser positivo")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log_level inválido: %q", c.LogLevel))
	}
	if c.Defaults.PeriodMonths < 0 || c.Defaults.HabitacionalMonths < 0 || c.Defaults.SecondaryMonths < 0 {
		problems = append(problems, "defaults.*_months não pode ser negativo")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
