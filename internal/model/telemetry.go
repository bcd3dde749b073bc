package model

// Status values for the telemetry source file.
const (
	StatusLive   = "live"
	StatusStale  = "stale"
	StatusNoFile = "no_file"
)

// MS5611 is a pressure-sensor reading: temperature, barometric pressure and
// derived altitude.
type MS5611 struct {
	Temp     float64 `json:"temp"`
	Pressure float64 `json:"pressure"`
	Altitude float64 `json:"altitude"`
}

// MPU6050 is an inertial sensor reading: three angular rates and three
// linear accelerations.
type MPU6050 struct {
	GX float64 `json:"gx"`
	GY float64 `json:"gy"`
	GZ float64 `json:"gz"`
	AX float64 `json:"ax"`
	AY float64 `json:"ay"`
	AZ float64 `json:"az"`
}

// SystemInfo holds ground-station host metrics, refreshed every poll cycle
// independently of the telemetry file.
type SystemInfo struct {
	CPU     float64 `json:"cpu"`
	GPUTemp float64 `json:"gpu_temp"`
}

// Telemetry is the aggregate served to the dashboard. Field names match the
// JSON contract the SRG dashboard frontend expects.
type Telemetry struct {
	Status    string     `json:"status"`
	Timestamp string     `json:"timestamp,omitempty"`
	MS5611    MS5611     `json:"ms5611"`
	MPU6050   MPU6050    `json:"mpu6050"`
	Temp      float64    `json:"tmp"`
	System    SystemInfo `json:"system"`
}
