package types

// Region represents a detected face in image pixel coordinates
type Region struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Score  float64 `json:"score"`
}

// Center returns the center point of the region
func (r Region) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Area returns the area of the region
func (r Region) Area() int {
	return r.Width * r.Height
}

// Box represents a normalized bounding box with coordinates in [0,1] range,
// as returned by vision-model backends
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Face represents a single face reported by a vision-model backend
type Face struct {
	Confidence float64 `json:"confidence"`
	Box        Box     `json:"box"`
}

// DetectionResult contains the complete face-detection response from a vision model
type DetectionResult struct {
	Faces []Face `json:"faces"`
}
