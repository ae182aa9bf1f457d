package service

import (
	"bytes"
	"context"
	"feednana/config"
	"feednana/internal/storage"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
)

func useFakeStore(t *testing.T) *fakeStore {
	t.Helper()
	fake := newFakeStore()
	old := storage.Default
	storage.Default = fake
	t.Cleanup(func() { storage.Default = old })
	return fake
}

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	return img
}

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(w, h)); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func decodeStoredPNG(t *testing.T, fake *fakeStore, key string) image.Image {
	t.Helper()
	data, ok := fake.get(key)
	if !ok {
		t.Fatalf("thumbnail %s not stored", key)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode stored thumbnail: %v", err)
	}
	return img
}

func TestDeriveThumbnailLargeImage(t *testing.T) {
	fake := useFakeStore(t)
	fake.put("big.png", encodeTestPNG(t, 600, 400))

	key, err := DeriveThumbnail(context.Background(), "big.png", "image/png")
	if err != nil {
		t.Fatalf("DeriveThumbnail: %v", err)
	}
	if key != "thumbnails/big.png" {
		t.Fatalf("key = %q", key)
	}
	thumb := decodeStoredPNG(t, fake, key)
	if thumb.Bounds().Dx() != ThumbnailSide || thumb.Bounds().Dy() != ThumbnailSide {
		t.Errorf("thumbnail is %dx%d, want %dx%d",
			thumb.Bounds().Dx(), thumb.Bounds().Dy(), ThumbnailSide, ThumbnailSide)
	}
}

func TestDeriveThumbnailSmallImageKeepsSize(t *testing.T) {
	fake := useFakeStore(t)
	fake.put("small.png", encodeTestPNG(t, 120, 80))

	key, err := DeriveThumbnail(context.Background(), "small.png", "image/png")
	if err != nil {
		t.Fatalf("DeriveThumbnail: %v", err)
	}
	thumb := decodeStoredPNG(t, fake, key)
	if thumb.Bounds().Dx() != 120 || thumb.Bounds().Dy() != 80 {
		t.Errorf("small image was resized to %dx%d", thumb.Bounds().Dx(), thumb.Bounds().Dy())
	}
}

func TestDeriveThumbnailBMP(t *testing.T) {
	fake := useFakeStore(t)
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, testImage(400, 400)); err != nil {
		t.Fatalf("encode bmp: %v", err)
	}
	fake.put("pic.bmp", buf.Bytes())

	key, err := DeriveThumbnail(context.Background(), "pic.bmp", "image/bmp")
	if err != nil {
		t.Fatalf("DeriveThumbnail: %v", err)
	}
	if key != "thumbnails/pic.png" {
		t.Fatalf("bmp thumbnail key = %q, want png re-encode", key)
	}
	thumb := decodeStoredPNG(t, fake, key)
	if thumb.Bounds().Dx() != ThumbnailSide {
		t.Errorf("bmp thumbnail width = %d", thumb.Bounds().Dx())
	}
}

func TestDeriveThumbnailGIFKeepsFrames(t *testing.T) {
	fake := useFakeStore(t)
	src := &gif.GIF{}
	for i := 0; i < 3; i++ {
		frame := image.NewPaletted(image.Rect(0, 0, 300, 300), []color.Color{
			color.White, color.Black, color.RGBA{R: 255, A: 255},
		})
		frame.SetColorIndex(i, i, 1)
		src.Image = append(src.Image, frame)
		src.Delay = append(src.Delay, 10)
	}
	src.Config.Width = 300
	src.Config.Height = 300
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, src); err != nil {
		t.Fatalf("encode gif: %v", err)
	}
	fake.put("anim.gif", buf.Bytes())

	key, err := DeriveThumbnail(context.Background(), "anim.gif", "image/gif")
	if err != nil {
		t.Fatalf("DeriveThumbnail: %v", err)
	}
	if key != "thumbnails/anim.gif" {
		t.Fatalf("gif thumbnail key = %q, want gif", key)
	}
	data, ok := fake.get(key)
	if !ok {
		t.Fatal("gif thumbnail not stored")
	}
	thumb, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode gif thumbnail: %v", err)
	}
	if len(thumb.Image) != 3 {
		t.Errorf("thumbnail has %d frames, want 3", len(thumb.Image))
	}
	if w := thumb.Image[0].Bounds().Dx(); w != ThumbnailSide {
		t.Errorf("gif frame width = %d", w)
	}
}

func TestDeriveThumbnailCorruptImage(t *testing.T) {
	fake := useFakeStore(t)
	fake.put("broken.png", []byte("definitely not a png"))

	key, err := DeriveThumbnail(context.Background(), "broken.png", "image/png")
	if err != nil {
		t.Fatalf("corrupt source must not be an error, got %v", err)
	}
	if key != "" {
		t.Errorf("corrupt source produced key %q", key)
	}
}

func TestDeriveThumbnailUnsupportedMime(t *testing.T) {
	fake := useFakeStore(t)
	fake.put("doc.pdf", []byte("%PDF-1.4"))

	key, err := DeriveThumbnail(context.Background(), "doc.pdf", "application/pdf")
	if err != nil {
		t.Fatalf("unsupported mime must not be an error, got %v", err)
	}
	if key != "" {
		t.Errorf("unsupported mime produced key %q", key)
	}
}

func TestDeriveThumbnailVideoWithoutFfmpeg(t *testing.T) {
	fake := useFakeStore(t)
	fake.put("clip.mp4", []byte("not really a video"))
	oldFfmpeg, oldFfprobe := config.AppConfig.FFmpegPath, config.AppConfig.FFprobePath
	config.AppConfig.FFmpegPath = "/definitely/not/ffmpeg"
	config.AppConfig.FFprobePath = "/definitely/not/ffprobe"
	defer func() {
		config.AppConfig.FFmpegPath = oldFfmpeg
		config.AppConfig.FFprobePath = oldFfprobe
	}()

	key, err := DeriveThumbnail(context.Background(), "clip.mp4", "video/mp4")
	if err != nil {
		t.Fatalf("render failure must not be an error, got %v", err)
	}
	if key != "" {
		t.Errorf("broken ffmpeg produced key %q", key)
	}
}

func TestDeriveThumbnailMissingObject(t *testing.T) {
	useFakeStore(t)
	if _, err := DeriveThumbnail(context.Background(), "gone.png", "image/png"); err == nil {
		t.Fatal("missing object should be a retryable error")
	}
}

func TestDeriveThumbnailStoreFailure(t *testing.T) {
	fake := useFakeStore(t)
	fake.put("ok.png", encodeTestPNG(t, 300, 300))
	fake.putFails = true
	if _, err := DeriveThumbnail(context.Background(), "ok.png", "image/png"); err == nil {
		t.Fatal("store failure should be a retryable error")
	}
}
