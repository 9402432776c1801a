package model

import (
	"sort"
	"time"
)

// CustomCounter is a persistent counter definition.
type CustomCounter struct {
	Key        string    `json:"key"`
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name" validate:"required,max=128"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
}

// SetKey sets the database key for this counter.
func (c *CustomCounter) SetKey(key string) {
	c.Key = key
}

// GetKey returns the database key for this counter.
func (c *CustomCounter) GetKey() string {
	return c.Key
}

// GenerateCounterKey generates a database key for a counter.
func GenerateCounterKey(userID, id string) string {
	return joinKey(PrefixCounter, userID, id)
}

// NewCustomCounter creates a counter definition.
func NewCustomCounter(userID, name string, orderIndex int) *CustomCounter {
	return &CustomCounter{
		UserID:     userID,
		Name:       name,
		OrderIndex: orderIndex,
		CreatedAt:  time.Now().UTC(),
	}
}

// SortCounters orders counters by order index, then id.
func SortCounters(counters []*CustomCounter) {
	sort.SliceStable(counters, func(i, j int) bool {
		if counters[i].OrderIndex != counters[j].OrderIndex {
			return counters[i].OrderIndex < counters[j].OrderIndex
		}
		return counters[i].ID < counters[j].ID
	})
}

// CustomCounterValue is a counter's value on one date.
type CustomCounterValue struct {
	Key       string `json:"key"`
	UserID    string `json:"user_id"`
	CounterID string `json:"counter_id"`
	Date      string `json:"date"`
	Value     int    `json:"value"`
}

// SetKey sets the database key for this value.
func (v *CustomCounterValue) SetKey(key string) {
	v.Key = key
}

// GetKey returns the database key for this value.
func (v *CustomCounterValue) GetKey() string {
	return v.Key
}

// GenerateCounterValueKey generates a database key for a counter value.
func GenerateCounterValueKey(userID, counterID, date string) string {
	return joinKey(PrefixCounterValue, userID, counterID, date)
}

// CounterValuePrefix returns the key prefix for every value of one counter.
func CounterValuePrefix(userID, counterID string) string {
	return joinKey(PrefixCounterValue, userID, counterID) + ":"
}

// CounterState is a counter resolved for a materialized day.
type CounterState struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Value      int    `json:"value"`
	OrderIndex int    `json:"orderIndex"`
}
