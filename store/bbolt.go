package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gloworm-vision/gloworm-gpio/hardware"
	"go.etcd.io/bbolt"
)

type BBolt struct {
	db *bbolt.DB
}

var _ Store = &BBolt{}

const (
	bboltGlowormBucket = "gloworm"
	bboltLightsBucket  = "lights" // child of gloworm

	// gloworm keys
	bboltHardwareKey = "hardware"

	// lights keys
	bboltBrightnessKey = "brightness"
	bboltStatusesKey   = "statuses"
)

// OpenBBolt opens a BBoltDB database at the given path and creates the needed buckets
// if they don't exist.
func OpenBBolt(path string, mode os.FileMode, options *bbolt.Options) (*BBolt, error) {
	db, err := bbolt.Open(path, mode, options)
	if err != nil {
		return nil, fmt.Errorf("unable to open bbolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		glowormBucket, err := tx.CreateBucketIfNotExists([]byte(bboltGlowormBucket))
		if err != nil {
			return fmt.Errorf("unable to create bucket %q: %w", bboltGlowormBucket, err)
		}

		_, err = glowormBucket.CreateBucketIfNotExists([]byte(bboltLightsBucket))
		if err != nil {
			return fmt.Errorf("unable to create bucket %q: %w", bboltLightsBucket, err)
		}

		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to create bbolt buckets: %w", err)
	}

	return &BBolt{
		db: db,
	}, nil
}

func (b *BBolt) Close() error {
	return b.db.Close()
}

func (b *BBolt) HardwareConfig() (hardware.Config, error) {
	var h hardware.Config
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bboltGlowormBucket))
		hardwareJSON := bucket.Get([]byte(bboltHardwareKey))
		if hardwareJSON == nil {
			return fmt.Errorf("hardware config does not exist: %w", ErrNotFound)
		}

		if err := json.Unmarshal(hardwareJSON, &h); err != nil {
			return fmt.Errorf("unable to unmarshal hardware config JSON: %w", err)
		}

		return nil
	})
	if err != nil {
		return h, fmt.Errorf("unable to get hardware config: %w", err)
	}

	return h, nil
}

func (b *BBolt) PutHardwareConfig(p hardware.Config) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		hardwareJSON, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("unable to marshal hardware config: %w", err)
		}

		bucket := tx.Bucket([]byte(bboltGlowormBucket))
		if err := bucket.Put([]byte(bboltHardwareKey), hardwareJSON); err != nil {
			return fmt.Errorf("unable to put hardware config: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("unable to update hardware config: %w", err)
	}

	return nil
}

// LightState returns the stored light state. Nothing stored yet is the zero
// LightState: lights off, no statuses.
func (b *BBolt) LightState() (LightState, error) {
	var l LightState
	err := b.db.View(func(tx *bbolt.Tx) error {
		lightsBucket := tx.Bucket([]byte(bboltGlowormBucket)).Bucket([]byte(bboltLightsBucket))

		if brightnessJSON := lightsBucket.Get([]byte(bboltBrightnessKey)); brightnessJSON != nil {
			if err := json.Unmarshal(brightnessJSON, &l.Brightness); err != nil {
				return fmt.Errorf("unable to unmarshal brightness JSON: %w", err)
			}
		}

		if statusesJSON := lightsBucket.Get([]byte(bboltStatusesKey)); statusesJSON != nil {
			if err := json.Unmarshal(statusesJSON, &l.Statuses); err != nil {
				return fmt.Errorf("unable to unmarshal statuses JSON: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return l, fmt.Errorf("unable to get light state: %w", err)
	}

	return l, nil
}

func (b *BBolt) PutLightState(l LightState) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		brightnessJSON, err := json.Marshal(l.Brightness)
		if err != nil {
			return fmt.Errorf("unable to marshal brightness: %w", err)
		}
		statusesJSON, err := json.Marshal(l.Statuses)
		if err != nil {
			return fmt.Errorf("unable to marshal statuses: %w", err)
		}

		lightsBucket := tx.Bucket([]byte(bboltGlowormBucket)).Bucket([]byte(bboltLightsBucket))
		if err := lightsBucket.Put([]byte(bboltBrightnessKey), brightnessJSON); err != nil {
			return fmt.Errorf("unable to put brightness: %w", err)
		}
		if err := lightsBucket.Put([]byte(bboltStatusesKey), statusesJSON); err != nil {
			return fmt.Errorf("unable to put statuses: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("unable to update light state: %w", err)
	}

	return nil
}
