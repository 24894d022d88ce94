package nina

// Payload types for the typed REST surface. Field names follow the remote
// API's own casing convention; parsing is case-insensitive but outgoing
// values must serialize exactly as documented.

// CameraInfo describes the connected camera.
type CameraInfo struct {
	Connected    bool    `json:"Connected"`
	Name         string  `json:"Name"`
	Temperature  float64 `json:"Temperature"`
	TargetTemp   float64 `json:"TemperatureSetPoint"`
	CoolerOn     bool    `json:"CoolerOn"`
	CoolerPower  float64 `json:"CoolerPower"`
	Gain         int     `json:"Gain"`
	Offset       int     `json:"Offset"`
	IsExposing   bool    `json:"IsExposing"`
	PixelSize    float64 `json:"PixelSize"`
	XSize        int     `json:"XSize"`
	YSize        int     `json:"YSize"`
	Battery      int     `json:"Battery"`
	ExposureMax  float64 `json:"ExposureMax"`
	ExposureMin  float64 `json:"ExposureMin"`
	ReadoutMode  int     `json:"ReadoutMode"`
	SensorType   string  `json:"SensorType"`
	DewHeaterOn  bool    `json:"DewHeaterOn"`
	CanSetTemp   bool    `json:"CanSetTemperature"`
	HasDewHeater bool    `json:"HasDewHeater"`
}

// MountInfo describes the connected mount.
type MountInfo struct {
	Connected       bool    `json:"Connected"`
	Name            string  `json:"Name"`
	RightAscension  float64 `json:"RightAscension"`
	Declination     float64 `json:"Declination"`
	Altitude        float64 `json:"Altitude"`
	Azimuth         float64 `json:"Azimuth"`
	SiderealTime    float64 `json:"SiderealTime"`
	AtPark          bool    `json:"AtPark"`
	AtHome          bool    `json:"AtHome"`
	TrackingEnabled bool    `json:"TrackingEnabled"`
	Slewing         bool    `json:"Slewing"`
	SideOfPier      string  `json:"SideOfPier"`
}

// Filter identifies a filter by name and wheel slot.
type Filter struct {
	Name string `json:"Name"`
	ID   int    `json:"Id"`
}

// FilterWheelInfo describes the connected filter wheel.
type FilterWheelInfo struct {
	Connected        bool     `json:"Connected"`
	Name             string   `json:"Name"`
	IsMoving         bool     `json:"IsMoving"`
	SelectedFilter   Filter   `json:"SelectedFilter"`
	AvailableFilters []Filter `json:"AvailableFilters"`
}

// FocuserInfo describes the connected focuser.
type FocuserInfo struct {
	Connected   bool    `json:"Connected"`
	Name        string  `json:"Name"`
	Position    int     `json:"Position"`
	Temperature float64 `json:"Temperature"`
	IsMoving    bool    `json:"IsMoving"`
	StepSize    float64 `json:"StepSize"`
}

// GuiderInfo describes the connected guider.
type GuiderInfo struct {
	Connected  bool    `json:"Connected"`
	Name       string  `json:"Name"`
	State      string  `json:"State"`
	PixelScale float64 `json:"PixelScale"`
	RMSError   RMS     `json:"RMSError"`
}

// RMS carries guiding error magnitudes in arcseconds.
type RMS struct {
	RA    float64 `json:"RA"`
	Dec   float64 `json:"Dec"`
	Total float64 `json:"Total"`
}

// ImageHistoryItem is one entry of the image history.
type ImageHistoryItem struct {
	ExposureTime  float64 `json:"ExposureTime"`
	ImageType     string  `json:"ImageType"`
	Filter        string  `json:"Filter"`
	RmsText       string  `json:"RmsText"`
	Temperature   float64 `json:"Temperature"`
	CameraName    string  `json:"CameraName"`
	Gain          int     `json:"Gain"`
	Offset        int     `json:"Offset"`
	Date          string  `json:"Date"`
	TelescopeName string  `json:"TelescopeName"`
	FocalLength   float64 `json:"FocalLength"`
	StDev         float64 `json:"StDev"`
	Mean          float64 `json:"Mean"`
	Median        float64 `json:"Median"`
	Stars         int     `json:"Stars"`
	HFR           float64 `json:"HFR"`
}
