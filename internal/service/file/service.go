package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"math"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

var ErrInvalidFileType = errors.New("invalid file type: only jpg, jpeg, png allowed")

// PunchKind is the side of a duty a photo proves.
type PunchKind string

const (
	PunchIn  PunchKind = "in"
	PunchOut PunchKind = "out"
)

// Folders accepted by the generic upload endpoint.
var uploadFolders = map[string]bool{
	"parking":  true,
	"fuel":     true,
	"accident": true,
	"misc":     true,
}

type FileService interface {
	// UploadPunchPhoto compresses and stores a duty punch photo
	UploadPunchPhoto(ctx context.Context, driverID string, date time.Time, kind PunchKind, file io.Reader, filename string) (string, error)

	// UploadReceipt compresses and stores a parking or fuel receipt
	UploadReceipt(ctx context.Context, folder string, ownerID string, file io.Reader, filename string) (string, error)

	DeleteFile(ctx context.Context, path string) error

	// URL maps a stored path to its public URL, nil in nil out
	URL(path *string) *string
}

type fileServiceImpl struct {
	storage storage.FileStorage
	now     func() time.Time
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
		now:     time.Now,
	}
}

// IsUploadFolder reports whether folder is accepted by UploadReceipt.
func IsUploadFolder(folder string) bool {
	return uploadFolders[folder]
}

func checkImageExt(filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png":
		return nil
	}
	return ErrInvalidFileType
}

// UploadPunchPhoto stores duty/{date}/{driverID}-{kind}-{unix}.jpg
func (s *fileServiceImpl) UploadPunchPhoto(ctx context.Context, driverID string, date time.Time, kind PunchKind, file io.Reader, filename string) (string, error) {
	if err := checkImageExt(filename); err != nil {
		return "", err
	}

	compressed, err := readAndCompress(file)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-%s-%d.jpg", driverID, kind, s.now().Unix())
	p := path.Join("duty", date.Format(time.DateOnly), name)

	uploaded, err := s.storage.Upload(ctx, bytes.NewReader(compressed), p, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload punch photo: %w", err)
	}
	return uploaded, nil
}

// UploadReceipt stores {folder}/{ownerID}/{uuid}.jpg
func (s *fileServiceImpl) UploadReceipt(ctx context.Context, folder string, ownerID string, file io.Reader, filename string) (string, error) {
	if !IsUploadFolder(folder) {
		return "", fmt.Errorf("unknown upload folder %q", folder)
	}
	if err := checkImageExt(filename); err != nil {
		return "", err
	}

	compressed, err := readAndCompress(file)
	if err != nil {
		return "", err
	}

	p := path.Join(folder, ownerID, uuid.New().String()+".jpg")

	uploaded, err := s.storage.Upload(ctx, bytes.NewReader(compressed), p, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload receipt: %w", err)
	}
	return uploaded, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

func (s *fileServiceImpl) URL(path *string) *string {
	if path == nil || *path == "" {
		return nil
	}
	u := s.storage.URL(*path)
	return &u
}

func readAndCompress(file io.Reader) ([]byte, error) {
	buffer, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	// Target 50KB - 150KB
	compressed, err := compressImage(buffer, 150*1024, 50*1024)
	if err != nil {
		return nil, fmt.Errorf("failed to compress image: %w", err)
	}
	return compressed, nil
}

// compressImage re-encodes an image as JPEG, lowering quality and then
// resolution until it fits in [minSize, maxSize]. Inputs already in range
// are returned unchanged. Phone photos are rotated upright from their EXIF
// orientation before re-encoding, since the JPEG encoder drops EXIF.
func compressImage(buffer []byte, maxSize int, minSize int) ([]byte, error) {
	if len(buffer) <= maxSize && len(buffer) >= minSize {
		return buffer, nil
	}

	img, err := imaging.Decode(bytes.NewReader(buffer), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var compressed []byte
	for quality := 85; quality >= 50; quality -= 5 {
		compressed, err = encodeJPEG(img, quality)
		if err != nil {
			return nil, err
		}
		if len(compressed) <= maxSize {
			return compressed, nil
		}
	}

	// Still too large: scale towards ~100KB
	bounds := img.Bounds()
	ratio := math.Sqrt(float64(100*1024) / float64(len(compressed)))
	width := max(int(float64(bounds.Dx())*ratio), 600)
	height := max(int(float64(bounds.Dy())*ratio), 400)

	return encodeJPEG(resizeImage(img, width, height), 70)
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// resizeImage scales with CatmullRom interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
