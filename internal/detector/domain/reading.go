package domain

import "time"

const DefaultBattery = 100

// Reading is one immutable telemetry sample. Timestamp is server assigned
// and is the only ordering key (newest first).
type Reading struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	DetectorID  string    `json:"detector" gorm:"index:idx_readings_detector_ts,priority:1;not null"`
	PPM         int       `json:"ppm" gorm:"not null"`
	Temperature *float64  `json:"temperature"`
	Humidity    *float64  `json:"humidity"`
	Battery     int       `json:"battery" gorm:"not null"`
	Status      Status    `json:"status" gorm:"size:16;index;not null"`
	Timestamp   time.Time `json:"timestamp" gorm:"index:idx_readings_detector_ts,priority:2,sort:desc;not null"`

	Detector *Detector `json:"-" gorm:"foreignKey:DetectorID;constraint:OnDelete:CASCADE"`
}
