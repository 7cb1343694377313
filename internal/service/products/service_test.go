package products

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/posadmin/internal/domain/models"
	"github.com/mamadbah2/posadmin/internal/service/catalog"
)

type fakeGateway struct {
	created []models.ProductForm
	updated map[int]models.ProductForm
	deleted []int
}

func (f *fakeGateway) CreateProduct(_ context.Context, form models.ProductForm) (*models.Product, error) {
	f.created = append(f.created, form)
	return &models.Product{ID: 10, Name: form.Name}, nil
}

func (f *fakeGateway) UpdateProduct(_ context.Context, id int, form models.ProductForm) error {
	if f.updated == nil {
		f.updated = map[int]models.ProductForm{}
	}
	f.updated[id] = form
	return nil
}

func (f *fakeGateway) DeleteProduct(_ context.Context, id int) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func newService(gw *fakeGateway) *Service {
	cat := catalog.New(func(context.Context) ([]models.Product, error) {
		return []models.Product{
			{ID: 1, Name: "Café molido", ImageURL: "/uploads/cafe.png"},
			{ID: 2, Name: "Azúcar", ImageURL: "https://cdn.test/azucar.jpg"},
			{ID: 3, Name: "Sal"},
		}, nil
	})
	return NewService(gw, cat, "https://pos.test/", 100, nil)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestImageURL(t *testing.T) {
	cases := map[string]string{
		"https://cdn.test/a.png": "https://cdn.test/a.png",
		"/uploads/a.png":         "https://pos.test/uploads/a.png",
		"":                       PlaceholderImage,
		"uploads/a.png":          PlaceholderImage,
	}
	for ref, want := range cases {
		if got := ImageURL("https://pos.test/", ref); got != want {
			t.Errorf("ImageURL(%q) = %q, want %q", ref, got, want)
		}
	}
}

func TestListSearchesAndResolvesImages(t *testing.T) {
	s := newService(&fakeGateway{})
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	all := s.List("")
	if len(all) != 3 {
		t.Fatalf("list = %d items", len(all))
	}
	if all[0].DisplayImage != "https://pos.test/uploads/cafe.png" || all[2].DisplayImage != PlaceholderImage {
		t.Errorf("images = %q, %q", all[0].DisplayImage, all[2].DisplayImage)
	}

	found := s.List("CAFE")
	if len(found) != 1 || found[0].ID != 1 {
		t.Errorf("search = %+v", found)
	}
}

func TestCreateDownscalesWideImages(t *testing.T) {
	gw := &fakeGateway{}
	s := newService(gw)

	form := models.ProductForm{
		Name:  " Frijol ",
		Price: decimal.NewFromInt(30),
		Stock: 5,
		Image: &models.ImageUpload{Filename: "frijol.png", ContentType: "image/png", Data: pngBytes(t, 400, 200)},
	}
	if _, err := s.Create(context.Background(), form); err != nil {
		t.Fatalf("Create: %v", err)
	}

	sent := gw.created[0]
	if sent.Name != "Frijol" {
		t.Errorf("name = %q", sent.Name)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(sent.Image.Data))
	if err != nil {
		t.Fatal(err)
	}
	if format != "png" || cfg.Width != 100 || cfg.Height != 50 {
		t.Errorf("image = %s %dx%d, want png 100x50", format, cfg.Width, cfg.Height)
	}
}

func TestCreateKeepsSmallImages(t *testing.T) {
	gw := &fakeGateway{}
	s := newService(gw)
	data := pngBytes(t, 40, 40)

	form := models.ProductForm{Name: "Sal", Image: &models.ImageUpload{Filename: "sal.png", Data: data}}
	if _, err := s.Create(context.Background(), form); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(gw.created[0].Image.Data, data) {
		t.Error("small image was re-encoded")
	}
}

func TestCreateRejectsInvalidForms(t *testing.T) {
	gw := &fakeGateway{}
	s := newService(gw)

	cases := []models.ProductForm{
		{Name: "  "},
		{Name: "x", Price: decimal.NewFromInt(-1)},
		{Name: "x", Stock: -2},
		{Name: "x", Image: &models.ImageUpload{Filename: "doc.pdf"}},
		{Name: "x", Image: &models.ImageUpload{Filename: "bad.png", Data: []byte("not an image")}},
	}
	for _, form := range cases {
		if _, err := s.Create(context.Background(), form); !errors.Is(err, models.ErrValidation) {
			t.Errorf("Create(%+v) err = %v, want ErrValidation", form, err)
		}
	}
	if len(gw.created) != 0 {
		t.Error("invalid form reached the backend")
	}
}

// oversizedPNG returns a tiny PNG whose header declares w x h pixels.
func oversizedPNG(t *testing.T, w, h uint32) []byte {
	t.Helper()
	data := pngBytes(t, 1, 1)
	// IHDR data follows the 8-byte signature and the chunk length and type.
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestCreateRejectsOversizedImagesBeforeDecoding(t *testing.T) {
	gw := &fakeGateway{}
	s := newService(gw)

	form := models.ProductForm{
		Name:  "Bomba",
		Image: &models.ImageUpload{Filename: "bomba.png", Data: oversizedPNG(t, 50_000, 50_000)},
	}
	if _, err := s.Create(context.Background(), form); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("Create err = %v, want ErrValidation", err)
	}
	if len(gw.created) != 0 {
		t.Error("oversized image reached the backend")
	}
}

func TestUpdateAndDelete(t *testing.T) {
	gw := &fakeGateway{}
	s := newService(gw)

	if err := s.Update(context.Background(), 2, models.ProductForm{Name: "Azúcar morena"}); err != nil {
		t.Fatal(err)
	}
	if gw.updated[2].ID != 2 {
		t.Errorf("form id = %d", gw.updated[2].ID)
	}
	if err := s.Update(context.Background(), 0, models.ProductForm{Name: "x"}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("err = %v", err)
	}

	if err := s.Delete(context.Background(), 3); err != nil {
		t.Fatal(err)
	}
	if len(gw.deleted) != 1 || gw.deleted[0] != 3 {
		t.Errorf("deleted = %v", gw.deleted)
	}
}
