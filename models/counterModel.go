package models

// Counter holds the last value issued for a named sequence.
type Counter struct {
	Name  string `bson:"name"`
	Value int64  `bson:"value"`
}
