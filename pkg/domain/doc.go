// Package domain holds the data structures shared by the pipeline
// commands and the internal packages: the merged nutrient sample record
// and the per-field accessors used by the trend and summary stages.
package domain
