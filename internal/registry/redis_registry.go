package registry

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/example/rapid-dispatch/internal/models"
)

// RedisRegistry stores the fleet in Redis: a set of ids, one GEOADD entry
// per driver, and a metadata hash per driver. Listing is ordered by
// ascending id since Redis sets carry no insertion order.
//
// Mutations go through check-then-set over two commands, so mu serializes
// them: concurrent Reserve calls for the same driver must not both observe
// available=true. Cross-process coordination is out of scope.
type RedisRegistry struct {
	mu     sync.Mutex
	client *redis.Client
	geoKey string
	idsKey string
	ctx    context.Context
}

func NewRedisRegistry(addr, password, geoKey string) *RedisRegistry {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	return &RedisRegistry{client: c, geoKey: geoKey, idsKey: geoKey + ":ids", ctx: context.Background()}
}

// Seed loads the fleet, replacing per-driver state that already exists.
func (r *RedisRegistry) Seed(drivers []models.Driver) error {
	for _, d := range drivers {
		if err := d.Loc.Validate(); err != nil {
			return fmt.Errorf("driver %d: %w", d.ID, err)
		}
		if err := r.client.SAdd(r.ctx, r.idsKey, d.ID).Err(); err != nil {
			return err
		}
		if err := r.client.GeoAdd(r.ctx, r.geoKey, &redis.GeoLocation{
			Longitude: d.Loc.Lng, Latitude: d.Loc.Lat, Name: strconv.Itoa(d.ID),
		}).Err(); err != nil {
			return err
		}
		if err := r.client.HSet(r.ctx, metaKey(d.ID), map[string]interface{}{
			"name":      d.Name,
			"vehicle":   string(d.Vehicle),
			"available": strconv.FormatBool(d.Available),
		}).Err(); err != nil {
			return err
		}
	}
	return nil
}

func (r *RedisRegistry) ListAvailable() ([]models.Driver, error) {
	ids, err := r.client.SMembers(r.ctx, r.idsKey).Result()
	if err != nil {
		return nil, err
	}
	nums := make([]int, 0, len(ids))
	for _, s := range ids {
		if n, err := strconv.Atoi(s); err == nil {
			nums = append(nums, n)
		}
	}
	sort.Ints(nums)
	out := make([]models.Driver, 0, len(nums))
	for _, id := range nums {
		d, err := r.load(id)
		if err != nil {
			return nil, err
		}
		if d.Available {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *RedisRegistry) Get(id int) (models.Driver, error) {
	return r.load(id)
}

func (r *RedisRegistry) SetAvailability(id int, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.exists(id); err != nil {
		return err
	}
	return r.client.HSet(r.ctx, metaKey(id), "available", strconv.FormatBool(available)).Err()
}

func (r *RedisRegistry) Reserve(id int) (models.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, err := r.load(id)
	if err != nil {
		return models.Driver{}, err
	}
	if !d.Available {
		return models.Driver{}, fmt.Errorf("%w: id %d", ErrDriverUnavailable, id)
	}
	if err := r.client.HSet(r.ctx, metaKey(id), "available", "false").Err(); err != nil {
		return models.Driver{}, err
	}
	return d, nil
}

func (r *RedisRegistry) Release(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.exists(id); err != nil {
		return err
	}
	return r.client.HSet(r.ctx, metaKey(id), "available", "true").Err()
}

func (r *RedisRegistry) exists(id int) error {
	ok, err := r.client.SIsMember(r.ctx, r.idsKey, id).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: id %d", ErrDriverNotFound, id)
	}
	return nil
}

func (r *RedisRegistry) load(id int) (models.Driver, error) {
	if err := r.exists(id); err != nil {
		return models.Driver{}, err
	}
	d := models.Driver{ID: id}
	meta, err := r.client.HGetAll(r.ctx, metaKey(id)).Result()
	if err != nil {
		return models.Driver{}, err
	}
	d.Name = meta["name"]
	d.Vehicle = models.VehicleClass(meta["vehicle"])
	d.Available = meta["available"] == "true"
	pos, err := r.client.GeoPos(r.ctx, r.geoKey, strconv.Itoa(id)).Result()
	if err != nil {
		return models.Driver{}, err
	}
	if len(pos) > 0 && pos[0] != nil {
		d.Loc.Lat = pos[0].Latitude
		d.Loc.Lng = pos[0].Longitude
	}
	return d, nil
}

func metaKey(id int) string { return "driver:meta:" + strconv.Itoa(id) }
