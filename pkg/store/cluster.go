package store

import "fmt"

// ClusterStrategy selects how the members of a topology are composed.
type ClusterStrategy string

const (
	// StrategySingle wires the sole member directly, no composite.
	StrategySingle ClusterStrategy = "single"
	// StrategyFailover chains members in priority order.
	StrategyFailover ClusterStrategy = "failover"
	// StrategyMultiWrite fans writes out to every member.
	StrategyMultiWrite ClusterStrategy = "multiwrite"
)

// ClusterConfig describes a store topology. It is usually loaded from a
// YAML document; the strategy and write policy can also come from the
// environment when the member list is built in code.
type ClusterConfig struct {
	Strategy         ClusterStrategy `yaml:"strategy" env:"SESSION_CLUSTER_STRATEGY" envDefault:"single"`
	RequireAllWrites bool            `yaml:"require_all_writes" env:"SESSION_CLUSTER_REQUIRE_ALL_WRITES" envDefault:"false"`
	Members          []ClusterMember `yaml:"members"`
}

// ClusterMember is one node of the topology. Exactly one of the backend
// sections must be set, matching Backend. A member may itself be a nested
// cluster, so a failover of multi-writes (and the reverse) is expressible.
type ClusterMember struct {
	Backend string         `yaml:"backend"` // redis | mongo | memory | cluster
	Redis   *RedisConfig   `yaml:"redis,omitempty"`
	Mongo   *MongoConfig   `yaml:"mongo,omitempty"`
	Cluster *ClusterConfig `yaml:"cluster,omitempty"`
}

// NewFromClusterConfig builds the connection tree a topology describes.
// Options (logger) propagate to every node.
func NewFromClusterConfig(cfg ClusterConfig, opts ...Option) (Connection, error) {
	switch cfg.Strategy {
	case "", StrategySingle:
		if len(cfg.Members) != 1 {
			return nil, fmt.Errorf("%w: single strategy needs exactly one member, got %d",
				ErrInvalidConfig, len(cfg.Members))
		}
		return newClusterMember(cfg.Members[0], opts...)
	case StrategyFailover:
		members, err := newClusterMembers(cfg.Members, opts...)
		if err != nil {
			return nil, err
		}
		return NewFailover(members, opts...), nil
	case StrategyMultiWrite:
		members, err := newClusterMembers(cfg.Members, opts...)
		if err != nil {
			return nil, err
		}
		return NewMultiWrite(members, cfg.RequireAllWrites, opts...), nil
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, cfg.Strategy)
	}
}

func newClusterMembers(members []ClusterMember, opts ...Option) ([]Connection, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: composite strategy needs at least one member", ErrInvalidConfig)
	}
	conns := make([]Connection, 0, len(members))
	for i, m := range members {
		conn, err := newClusterMember(m, opts...)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
		conns = append(conns, conn)
	}
	return conns, nil
}

func newClusterMember(m ClusterMember, opts ...Option) (Connection, error) {
	switch m.Backend {
	case "redis":
		if m.Redis == nil {
			return nil, fmt.Errorf("%w: redis member has no redis section", ErrInvalidConfig)
		}
		return NewRedisConnection(*m.Redis, opts...), nil
	case "mongo":
		if m.Mongo == nil {
			return nil, fmt.Errorf("%w: mongo member has no mongo section", ErrInvalidConfig)
		}
		return NewMongoConnection(*m.Mongo, opts...), nil
	case "memory":
		return NewMemoryConnection(), nil
	case "cluster":
		if m.Cluster == nil {
			return nil, fmt.Errorf("%w: cluster member has no cluster section", ErrInvalidConfig)
		}
		return NewFromClusterConfig(*m.Cluster, opts...)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, m.Backend)
	}
}
