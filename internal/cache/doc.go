// Package cache provides the soft-limit cache shared by font faces and
// text measurements.
//
//	c := cache.New[string, float64](1024)
//	w := c.GetOrCreate("24px sans-serif|hello", measure)
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
