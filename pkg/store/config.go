package store

import "time"

// RedisConfig configures a RedisConnection. Loadable from the environment
// or from a YAML cluster topology document.
type RedisConfig struct {
	ConnectionURL  string        `yaml:"connection_url" env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"` // ConnectionURL is the URL of the store. It should be in the format "redis://:password@localhost:6379/0"
	KeyPrefix      string        `yaml:"key_prefix" env:"SESSION_KEY_PREFIX" envDefault:""`                             // KeyPrefix namespaces every key; it never leaks into results.
	RetryAttempts  int           `yaml:"retry_attempts" env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`                      // RetryAttempts is the number of connection attempts before giving up.
	RetryInterval  time.Duration `yaml:"retry_interval" env:"REDIS_RETRY_INTERVAL" envDefault:"1s"`                     // RetryInterval is the base delay between attempts; attempt n waits n times this.
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`                  // ConnectTimeout bounds the whole connect loop.
	ScanBatchSize  int           `yaml:"scan_batch_size" env:"REDIS_SCAN_BATCH_SIZE" envDefault:"100"`                  // ScanBatchSize is the COUNT hint for cursor scans.
	Persistent     bool          `yaml:"persistent" env:"REDIS_PERSISTENT" envDefault:"true"`                           // Persistent keeps the client open across Close calls.
}

// DefaultRedisConfig returns the configuration used when nothing is set in
// the environment.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		ConnectionURL:  "redis://localhost:6379/0",
		RetryAttempts:  3,
		RetryInterval:  time.Second,
		ConnectTimeout: 30 * time.Second,
		ScanBatchSize:  100,
		Persistent:     true,
	}
}

// MongoConfig configures a MongoConnection.
type MongoConfig struct {
	ConnectionURL  string        `yaml:"connection_url" env:"MONGODB_URL,required" envDefault:"mongodb://localhost:27017"` // ConnectionURL is the URL of the store.
	Database       string        `yaml:"database" env:"MONGODB_DATABASE" envDefault:"sessions"`                            // Database holding the session collection.
	Collection     string        `yaml:"collection" env:"MONGODB_COLLECTION" envDefault:"sessions"`                        // Collection holding one document per session key.
	KeyPrefix      string        `yaml:"key_prefix" env:"SESSION_KEY_PREFIX" envDefault:""`                                // KeyPrefix namespaces every key; it never leaks into results.
	RetryAttempts  int           `yaml:"retry_attempts" env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`                       // RetryAttempts is the number of connection attempts before giving up.
	RetryInterval  time.Duration `yaml:"retry_interval" env:"MONGODB_RETRY_INTERVAL" envDefault:"1s"`                      // RetryInterval is the base delay between attempts; attempt n waits n times this.
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`                   // ConnectTimeout bounds dialing and server selection per attempt.
	ScanBatchSize  int           `yaml:"scan_batch_size" env:"MONGODB_SCAN_BATCH_SIZE" envDefault:"100"`                   // ScanBatchSize is the cursor batch size for key scans.
	Persistent     bool          `yaml:"persistent" env:"MONGODB_PERSISTENT" envDefault:"true"`                            // Persistent keeps the client open across Close calls.
}

// DefaultMongoConfig returns the configuration used when nothing is set in
// the environment.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		ConnectionURL:  "mongodb://localhost:27017",
		Database:       "sessions",
		Collection:     "sessions",
		RetryAttempts:  3,
		RetryInterval:  time.Second,
		ConnectTimeout: 10 * time.Second,
		ScanBatchSize:  100,
		Persistent:     true,
	}
}
