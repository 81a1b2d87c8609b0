package config

// Config is the configuration body.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	DB         DBConfig         `mapstructure:"database"`
	Scylla     *ScyllaConfig    `mapstructure:"scylla"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Elastic    ElasticConfig    `mapstructure:"elastic"`
	Federation FederationConfig `mapstructure:"federation"`
	JWT        JWTConfig        `mapstructure:"jwt"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	URL  string `mapstructure:"url"`
	Host string `mapstructure:"host"`
}

type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

// ScyllaConfig selects the wide-column note backend. A nil section means the
// relational fallback serves all note reads and writes instead.
type ScyllaConfig struct {
	Nodes              []string `mapstructure:"nodes"`
	LocalDC            string   `mapstructure:"local_dc"`
	Keyspace           string   `mapstructure:"keyspace"`
	SparseTimelineDays int      `mapstructure:"sparse_timeline_days"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type KafkaConfig struct {
	Brokers     []string `mapstructure:"brokers"`
	FanoutTopic string   `mapstructure:"fanout_topic"`
	FanoutGroup string   `mapstructure:"fanout_group"`
}

type ElasticConfig struct {
	Address   string `mapstructure:"address"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	NoteIndex string `mapstructure:"note_index"`
}

type FederationConfig struct {
	Relays    []string `mapstructure:"relays"`
	UserAgent string   `mapstructure:"user_agent"`
	TimeoutMs int      `mapstructure:"timeout_ms"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}
