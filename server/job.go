package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/nixxel-company-limited/escpos-encoder/barcode"
	"github.com/nixxel-company-limited/escpos-encoder/escpos"
	"github.com/nixxel-company-limited/escpos-encoder/raster"
)

// Job types
const (
	JobBarcode = "barcode"
	JobImage   = "image"
	JobRaw     = "raw"
)

// DefaultMaxImagePixels bounds the decoded size of an image job
const DefaultMaxImagePixels = 4096 * 4096

// CutMode selects the cut appended after a job. On the wire it is either
// one of "none", "full" and "partial", or a boolean where true means a
// full cut.
type CutMode string

// Cut modes
const (
	CutNone    CutMode = "none"
	CutFull    CutMode = "full"
	CutPartial CutMode = "partial"
)

// UnmarshalJSON accepts a cut mode string or a boolean
func (c *CutMode) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*c = CutFull
		} else {
			*c = CutNone
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: cut must be a string or a boolean", escpos.ErrInvalidConfiguration)
	}
	*c = CutMode(s)
	return nil
}

// Command returns the cut opcodes for the mode, empty for no cut
func (c CutMode) Command() ([]byte, error) {
	switch CutMode(strings.ToLower(string(c))) {
	case "", CutNone:
		return nil, nil
	case CutFull:
		return escpos.Cut(false), nil
	case CutPartial:
		return escpos.Cut(true), nil
	default:
		return nil, fmt.Errorf("%w: unknown cut %q", escpos.ErrInvalidConfiguration, string(c))
	}
}

// Job is one print request as received on the wire, one JSON object per line
type Job struct {
	Type string `json:"type"`

	// barcode jobs
	System      string `json:"system,omitempty"`
	Data        string `json:"data,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	HRIPosition string `json:"hri_position,omitempty"`
	HRIFont     string `json:"hri_font,omitempty"`

	// image jobs; Image holds an encoded PNG, JPEG or GIF
	Image      []byte `json:"image,omitempty"`
	Threshold  *int   `json:"threshold,omitempty"`
	BandHeight int    `json:"band_height,omitempty"`
	Crop       *Rect  `json:"crop,omitempty"`

	// raw jobs are passed through untouched
	Raw []byte `json:"raw,omitempty"`

	Justification string  `json:"justification,omitempty"`
	Initialize    bool    `json:"initialize,omitempty"`
	Feed          int     `json:"feed,omitempty"`
	Cut           CutMode `json:"cut,omitempty"`
}

// Rect is a crop region in pixels
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Reply is sent back for every job
type Reply struct {
	OK    bool   `json:"ok"`
	Bytes int    `json:"bytes,omitempty"`
	Error string `json:"error,omitempty"`
}

// Build encodes the job into the exact bytes sent to the printer. Any
// validation failure is returned before bytes are produced. Images larger
// than DefaultMaxImagePixels are rejected.
func (j *Job) Build() ([]byte, error) {
	return j.build(DefaultMaxImagePixels)
}

func (j *Job) build(maxImagePixels int) ([]byte, error) {
	if j.Feed < 0 || j.Feed > 255 {
		return nil, fmt.Errorf("%w: feed %d must be between 0 and 255", escpos.ErrInvalidConfiguration, j.Feed)
	}
	cut, err := j.Cut.Command()
	if err != nil {
		return nil, err
	}

	var body []byte
	switch j.Type {
	case JobBarcode:
		body, err = j.barcode()
	case JobImage:
		body, err = j.image(maxImagePixels)
	case JobRaw:
		if len(j.Raw) == 0 {
			err = errors.New("raw job without data")
		}
		body = j.Raw
	default:
		err = fmt.Errorf("unknown job type %q", j.Type)
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if j.Initialize {
		buf.Write(escpos.Initialize())
	}
	buf.Write(body)
	if j.Feed > 0 {
		buf.Write(escpos.Feed(byte(j.Feed)))
	}
	buf.Write(cut)
	return buf.Bytes(), nil
}

func (j *Job) barcode() ([]byte, error) {
	enc := barcode.New()

	if j.System != "" {
		system, err := barcode.ParseSystem(j.System)
		if err != nil {
			return nil, err
		}
		enc.SetSystem(system)
	}
	if j.Width != 0 || j.Height != 0 {
		width, height := j.Width, j.Height
		if width == 0 {
			width = enc.Width()
		}
		if height == 0 {
			height = enc.Height()
		}
		if _, err := enc.SetBarCodeSize(width, height); err != nil {
			return nil, err
		}
	}

	position, err := barcode.ParseHRIPosition(j.HRIPosition)
	if err != nil {
		return nil, err
	}
	font, err := barcode.ParseHRIFont(j.HRIFont)
	if err != nil {
		return nil, err
	}
	justification, err := escpos.ParseJustification(j.Justification)
	if err != nil {
		return nil, err
	}

	return enc.
		SetHRIPosition(position).
		SetHRIFont(font).
		SetJustification(justification).
		Encode(j.Data)
}

func (j *Job) image(maxPixels int) ([]byte, error) {
	if len(j.Image) == 0 {
		return nil, fmt.Errorf("%w: image job without data", escpos.ErrInvalidImage)
	}
	if j.Crop != nil && (j.Crop.W <= 0 || j.Crop.H <= 0) {
		return nil, fmt.Errorf("%w: crop %dx%d must have a positive size", escpos.ErrInvalidImage, j.Crop.W, j.Crop.H)
	}

	// the header is checked first so oversized images are never allocated
	cfg, _, err := image.DecodeConfig(bytes.NewReader(j.Image))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", escpos.ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > maxPixels/cfg.Height {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", escpos.ErrInvalidImage, cfg.Width, cfg.Height, maxPixels)
	}

	decoded, _, err := image.Decode(bytes.NewReader(j.Image))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", escpos.ErrInvalidImage, err)
	}

	img := raster.FromImage(decoded)
	if j.Crop != nil {
		img = img.SubImage(j.Crop.X, j.Crop.Y, j.Crop.W, j.Crop.H)
	}

	justification, err := escpos.ParseJustification(j.Justification)
	if err != nil {
		return nil, err
	}
	enc := raster.New().SetJustification(justification)

	if j.Threshold != nil {
		if *j.Threshold < 0 || *j.Threshold > 255 {
			return nil, fmt.Errorf("%w: threshold %d must be between 0 and 255", escpos.ErrInvalidConfiguration, *j.Threshold)
		}
		enc.SetBinarizer(raster.Threshold(*j.Threshold))
	}
	if j.BandHeight != 0 {
		if _, err := enc.SetBandHeight(j.BandHeight); err != nil {
			return nil, err
		}
	}

	return enc.Encode(img)
}
