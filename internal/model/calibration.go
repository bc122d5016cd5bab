package model

import "time"

// DirectionalGain is one persisted solution cell: a single complex
// gain entry for one antenna/direction/sub-interval, stored as
// separate real/imaginary rows the way an h5parm's soltab stores
// amplitude/phase (spec §6's persisted output format, row-per-scalar).
type DirectionalGain struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	RunID         string    `json:"run_id" gorm:"type:varchar(64);index;not null"`
	SolutionName  string    `json:"solution_name" gorm:"type:varchar(64);not null"`
	Antenna       int       `json:"antenna" gorm:"not null"`
	Direction     int       `json:"direction" gorm:"not null"`
	SubInterval   int       `json:"sub_interval" gorm:"not null"`
	Entry         int       `json:"entry" gorm:"not null"` // 0..3 within the polarisation shape
	Real          float64   `json:"real" gorm:"not null"`
	Imag          float64   `json:"imag" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (DirectionalGain) TableName() string {
	return "directional_gain"
}

// CalibrationRun tracks one demix/calibration invocation end to end,
// mirroring ExperimentResult's lifecycle but keyed by the spec's own
// run identifier rather than ExperimentID.
type CalibrationRun struct {
	ID                  int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	RunID               string     `json:"run_id" gorm:"type:varchar(64);uniqueIndex;not null"`
	SolverAlgorithm     string     `json:"solver_algorithm" gorm:"type:varchar(32)"`
	Status              ExperimentStatus `json:"status" gorm:"type:tinyint;default:1"`
	TotalSolveSlots     int        `json:"total_solve_slots"`
	ConvergedSolveSlots int        `json:"converged_solve_slots"`
	CreatedAt           time.Time  `json:"created_at" gorm:"autoCreateTime"`
	CompletedAt         *time.Time `json:"completed_at"`
}

func (CalibrationRun) TableName() string {
	return "calibration_run"
}

// ChunkConvergence is one per-chunk telemetry point written to
// InfluxDB: how many solve-slots converged, and the final constraint
// accuracy, for one time chunk of one run.
type ChunkConvergence struct {
	RunID               string
	ChunkIndex          int
	TotalSolveSlots     int
	ConvergedSolveSlots int
	MaxConstraintAccuracy float64
	Timestamp           time.Time
}

func (ChunkConvergence) MeasurementName() string {
	return "calibration_chunk_convergence"
}
