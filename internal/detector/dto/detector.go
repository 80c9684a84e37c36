package dto

type CreateDetectorRequest struct {
	Name         string `json:"name" binding:"required,max=50"`
	Location     string `json:"location" binding:"max=100"`
	WifiSSID     string `json:"wifi_ssid" binding:"max=64"`
	WifiPassword string `json:"wifi_password" binding:"max=128"`
}

type ToggleResponse struct {
	ID       string `json:"id"`
	SensorOn bool   `json:"sensor_on"`
}
