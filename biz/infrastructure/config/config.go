package config

import (
	_ "embed"
	"essay-review/biz/infrastructure/util/log"
	"os"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/service"
	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

// //go:embed config.local.yaml
var embeddedConfig []byte

var config *Config

type Auth struct {
	SecretKey    string `json:",optional"`
	PublicKey    string
	AccessExpire int64 `json:",default=604800"`
}

type Config struct {
	service.ServiceConf
	ListenOn string
	State    string `json:",default=dev"`
	Auth     Auth
	Mongo    struct {
		URL string
		DB  string
	}
	MySQL struct {
		DSN string
	}
	Cache   cache.CacheConf
	Redis   *redis.RedisConf
	Stripe  StripeConf
	Mail    MailConf
	Api     API
	Metrics MetricsConf `json:",optional"`
	Log     LogConfig   `json:",optional"`
}

type LogConfig struct {
	NoLogPaths []string `json:",optional"`
}

type StripeConf struct {
	SecretKey     string
	WebhookSecret string
	Currency      string `json:",default=krw"`
	ProductName   string `json:",default=Essay correction"`
}

type MailConf struct {
	Provider      string `json:",default=console,options=console|sendgrid|ses"`
	From          string
	FromName      string `json:",optional"`
	SubjectPrefix string `json:",optional"`
	SendgridKey   string `json:",optional"`
	SESRegion     string `json:",optional"`
	Retries       int    `json:",default=3"`
}

type API struct {
	FrontendURL string
}

type MetricsConf struct {
	Addr string `json:",default=:9091"`
	Path string `json:",default=/metrics"`
}

func NewConfig() (*Config, error) {
	c := new(Config)

	if len(embeddedConfig) == 0 {
		path := os.Getenv("CONFIG_PATH")
		log.Info("NewConfig load config from path: %s", path)
		err := conf.Load(path, c)
		if err != nil {
			return nil, err
		}
	} else {
		err := conf.LoadFromYamlBytes(embeddedConfig, c)
		if err != nil {
			return nil, err
		}
	}

	err := c.SetUp()
	if err != nil {
		return nil, err
	}
	config = c
	return c, nil
}

func GetConfig() *Config {
	return config
}

// SetConfig 替换全局配置，供命令行工具与测试注入
func SetConfig(c *Config) {
	config = c
}
