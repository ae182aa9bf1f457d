package service

import (
	"bytes"
	"errors"
	"feednana/config"
	"feednana/internal/storage"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/net/context"
)

// ThumbnailSide is the square edge every thumbnail is rendered at.
const ThumbnailSide = 250

// ThumbnailKey places a file's thumbnail under its own prefix. GIF
// thumbnails keep the gif extension so animation survives; everything
// else is re-encoded to PNG.
func ThumbnailKey(objectKey, mimeType string) string {
	stem := strings.TrimSuffix(objectKey, filepath.Ext(objectKey))
	if strings.EqualFold(mimeType, "image/gif") {
		return "thumbnails/" + stem + ".gif"
	}
	return "thumbnails/" + stem + ".png"
}

// DeriveThumbnail renders, stores and returns the thumbnail key for a
// stored object. A source that cannot be rendered is not an error: the
// file keeps a null thumbnail, so the result is ("", nil). Errors are
// only returned for transient storage trouble the caller can retry.
func DeriveThumbnail(ctx context.Context, objectKey, mimeType string) (string, error) {
	if storage.Default == nil {
		return "", errors.New("storage not initialized")
	}
	reader, _, err := DownloadObject(ctx, objectKey)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	var rendered []byte
	var contentType string
	switch {
	case strings.EqualFold(mimeType, "image/gif"):
		rendered, err = renderGIFThumbnail(reader)
		contentType = "image/gif"
	case strings.EqualFold(mimeType, "image/bmp"), strings.EqualFold(mimeType, "image/x-ms-bmp"):
		rendered, err = renderBMPThumbnail(reader)
		contentType = "image/png"
	case IsImageMime(mimeType):
		rendered, err = renderImageThumbnail(reader)
		contentType = "image/png"
	case IsVideoMime(mimeType):
		rendered, err = renderVideoFrame(ctx, reader)
		contentType = "image/png"
	default:
		log.Printf("thumbnail: no renderer for %s (%s)", objectKey, mimeType)
		return "", nil
	}
	if err != nil {
		log.Printf("thumbnail: render %s fail: %v", objectKey, err)
		return "", nil
	}

	key := ThumbnailKey(objectKey, mimeType)
	err = storage.Default.PutObject(
		ctx,
		config.AppConfig.BucketName,
		key,
		bytes.NewReader(rendered),
		int64(len(rendered)),
		storage.PutOptions{ContentType: contentType},
	)
	if err != nil {
		return "", err
	}
	return key, nil
}

// squareThumb crops to a centered ThumbnailSide square. Images already
// inside the box are re-encoded as-is rather than upscaled.
func squareThumb(img image.Image) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= ThumbnailSide && bounds.Dy() <= ThumbnailSide {
		return img
	}
	return imaging.Fill(img, ThumbnailSide, ThumbnailSide, imaging.Center, imaging.Lanczos)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderImageThumbnail(reader io.Reader) ([]byte, error) {
	img, _, err := image.Decode(reader)
	if err != nil {
		return nil, err
	}
	return encodePNG(squareThumb(img))
}

func renderBMPThumbnail(reader io.Reader) ([]byte, error) {
	img, err := bmp.Decode(reader)
	if err != nil {
		return nil, err
	}
	return encodePNG(squareThumb(img))
}

// renderGIFThumbnail scales every frame so animated uploads keep their
// animation in the thumbnail.
func renderGIFThumbnail(reader io.Reader) ([]byte, error) {
	src, err := gif.DecodeAll(reader)
	if err != nil {
		return nil, err
	}
	if len(src.Image) == 0 {
		return nil, fmt.Errorf("gif has no frames")
	}

	// Frames can be partial; composite onto a running canvas first.
	bounds := image.Rect(0, 0, src.Config.Width, src.Config.Height)
	if bounds.Empty() {
		bounds = src.Image[0].Bounds()
	}
	canvas := image.NewRGBA(bounds)
	out := &gif.GIF{
		Delay:     src.Delay,
		LoopCount: src.LoopCount,
	}
	for _, frame := range src.Image {
		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		thumb := squareThumb(canvas)
		paletted := image.NewPaletted(thumb.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(paletted, thumb.Bounds(), thumb, thumb.Bounds().Min)
		out.Image = append(out.Image, paletted)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderVideoFrame grabs the frame at the video's midpoint with ffmpeg
// and renders it like a still image.
func renderVideoFrame(ctx context.Context, reader io.Reader) ([]byte, error) {
	src, err := os.CreateTemp("", "feednana-video-*")
	if err != nil {
		return nil, err
	}
	defer os.Remove(src.Name())
	defer src.Close()
	if _, err := io.Copy(src, reader); err != nil {
		return nil, err
	}
	if err := src.Sync(); err != nil {
		return nil, err
	}

	seek := videoMidpoint(ctx, src.Name())

	frame := src.Name() + ".png"
	defer os.Remove(frame)
	cmd := exec.CommandContext(
		ctx,
		config.AppConfig.FFmpegPath,
		"-ss", strconv.FormatFloat(seek, 'f', 3, 64),
		"-i", src.Name(),
		"-vframes", "1",
		"-f", "image2",
		"-y",
		frame,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %v: %s", err, strings.TrimSpace(stderr.String()))
	}
	rendered, err := os.Open(frame)
	if err != nil {
		return nil, err
	}
	defer rendered.Close()
	return renderImageThumbnail(rendered)
}

// videoMidpoint probes the duration and returns its halfway point in
// seconds, or zero when probing fails.
func videoMidpoint(ctx context.Context, path string) float64 {
	cmd := exec.CommandContext(
		ctx,
		config.AppConfig.FFprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil || duration <= 0 {
		return 0
	}
	return duration / 2
}
