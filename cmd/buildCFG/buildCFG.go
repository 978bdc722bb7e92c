package buildCFG

import (
	"strconv"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
)

type ServerConfig struct {
	Port      string
	StaticDir string
}

type RabbitConfig struct {
	Enabled  bool
	Url      string
	Exchange string
	Queue    string
}

type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	Password string
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) ServerConfig {
	serverCfg := ServerConfig{
		Port:      cfg.GetString("server.port"),
		StaticDir: cfg.GetString("static.dir"),
	}
	if serverCfg.Port == "" {
		serverCfg.Port = "8080"
		log.Warn().Msg("server.port not set, defaulting to 8080")
	}
	if serverCfg.StaticDir == "" {
		serverCfg.StaticDir = "./static"
	}
	return serverCfg
}

func BuildRabbitConfig(cfg *config.Config, log *zerolog.Logger) RabbitConfig {
	enabled, err := strconv.ParseBool(cfg.GetString("rabbit.enabled"))
	if err != nil {
		enabled = false
	}
	rabbitCfg := RabbitConfig{
		Enabled:  enabled,
		Url:      cfg.GetString("rabbit.url"),
		Exchange: cfg.GetString("rabbit.exchange"),
		Queue:    cfg.GetString("rabbit.queue"),
	}
	if rabbitCfg.Enabled && rabbitCfg.Url == "" {
		log.Warn().Msg("rabbit.enabled is set but rabbit.url is empty, disabling RabbitMQ")
		rabbitCfg.Enabled = false
	}
	return rabbitCfg
}

func BuildSMTPConfig(cfg *config.Config) SMTPConfig {
	return SMTPConfig{
		Host:     cfg.GetString("smtp.host"),
		Port:     cfg.GetString("smtp.port"),
		From:     cfg.GetString("smtp.from"),
		Password: cfg.GetString("smtp.password"),
	}
}
