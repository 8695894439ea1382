package catalog

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/pulse-backend/internal/modules/remote"
)

type fakeRepo struct {
	outlets  map[string]Outlet
	products map[string]Product
	err      error
	entered  chan struct{} // closed by UpsertOutlet on entry, when set
	release  chan struct{} // when set, UpsertOutlet waits until closed
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{outlets: make(map[string]Outlet), products: make(map[string]Product)}
}

func (f *fakeRepo) UpsertOutlet(ctx context.Context, o *Outlet) error {
	if f.entered != nil {
		close(f.entered)
		f.entered = nil
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return f.err
	}
	f.outlets[o.ID] = *o
	return nil
}

func (f *fakeRepo) DeleteOutlet(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.outlets, id)
	return nil
}

func (f *fakeRepo) ListOutlets(ctx context.Context) ([]Outlet, error) { return nil, f.err }

func (f *fakeRepo) UpsertProduct(ctx context.Context, p *Product) error {
	if f.err != nil {
		return f.err
	}
	f.products[p.ID] = *p
	return nil
}

func (f *fakeRepo) DeleteProduct(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.products, id)
	return nil
}

func (f *fakeRepo) ListProducts(ctx context.Context) ([]Product, error) { return nil, f.err }

func TestSaveOutletUpsertOverwrites(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	first, err := svc.SaveOutlet(context.Background(), SaveOutletRequest{
		ID: "o1", Name: "Spice Route", Location: "Block A", Type: "food", Tags: []string{"North Indian"},
	})
	require.NoError(t, err)
	assert.Equal(t, "o1", first.ID)

	// Creating again with the same id silently overwrites; this backs
	// edit-in-place from the admin surface.
	second, err := svc.SaveOutlet(context.Background(), SaveOutletRequest{
		ID: "o1", Name: "Spice Route 2.0", Location: "Block B", Type: "food",
	})
	require.NoError(t, err)
	assert.Len(t, repo.outlets, 1)
	assert.Equal(t, "Spice Route 2.0", repo.outlets["o1"].Name)
	assert.Equal(t, second.Name, repo.outlets["o1"].Name)
}

func TestSaveOutletGeneratesIDWhenMissing(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	o, err := svc.SaveOutlet(context.Background(), SaveOutletRequest{
		Name: "Noodle Bar", Location: "Block C", Type: "food",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
}

func TestSaveOutletValidation(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.SaveOutlet(context.Background(), SaveOutletRequest{Location: "A", Type: "food"})
	assert.Equal(t, remote.KindInvalid, remote.Classify(err))

	_, err = svc.SaveOutlet(context.Background(), SaveOutletRequest{Name: "X", Location: "A", Type: "pharmacy"})
	assert.Equal(t, remote.KindInvalid, remote.Classify(err))
}

func TestSaveOutletRejectsOversizedImageLocally(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	oversized := base64.StdEncoding.EncodeToString(make([]byte, remote.MaxImageBytes+1))

	_, err := svc.SaveOutlet(context.Background(), SaveOutletRequest{
		ID: "o1", Name: "X", Location: "A", Type: "food",
		ImageBase64: oversized, ImageType: "image/png",
	})
	require.Error(t, err)
	assert.Equal(t, remote.KindInvalid, remote.Classify(err))
	assert.Empty(t, repo.outlets, "nothing may be sent when validation fails")
}

func TestSaveOutletEncodesImage(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	payload := base64.StdEncoding.EncodeToString([]byte("png"))

	o, err := svc.SaveOutlet(context.Background(), SaveOutletRequest{
		ID: "o1", Name: "X", Location: "A", Type: "stationery",
		ImageBase64: payload, ImageType: "image/png",
	})
	require.NoError(t, err)
	assert.Contains(t, o.ImageURL, "data:image/png;base64,")
}

func TestOverlappingOutletWritesRejected(t *testing.T) {
	repo := newFakeRepo()
	repo.entered = make(chan struct{})
	repo.release = make(chan struct{})
	svc := NewService(repo)

	entered := repo.entered
	done := make(chan error, 1)
	go func() {
		_, err := svc.SaveOutlet(context.Background(), SaveOutletRequest{
			ID: "o1", Name: "X", Location: "A", Type: "food",
		})
		done <- err
	}()

	// Wait until the first write holds the in-flight key, then collide.
	<-entered
	_, err := svc.SaveOutlet(context.Background(), SaveOutletRequest{
		ID: "o1", Name: "Y", Location: "B", Type: "food",
	})
	assert.ErrorIs(t, err, remote.ErrInFlight)

	close(repo.release)
	require.NoError(t, <-done)

	// A write to a different entity is unaffected afterwards.
	_, err = svc.SaveOutlet(context.Background(), SaveOutletRequest{
		ID: "o2", Name: "Z", Location: "C", Type: "food",
	})
	assert.NoError(t, err)
}

func TestDeleteOutletDoesNotCascade(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	_, err := svc.SaveOutlet(context.Background(), SaveOutletRequest{ID: "o1", Name: "X", Location: "A", Type: "food"})
	require.NoError(t, err)
	_, err = svc.SaveProduct(context.Background(), SaveProductRequest{ID: "p1", OutletID: "o1", Name: "Tea", Price: 10})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOutlet(context.Background(), "o1"))
	assert.Empty(t, repo.outlets)
	assert.Len(t, repo.products, 1, "products survive their outlet's deletion")

	orphans := OrphanedProducts([]Product{repo.products["p1"]}, nil)
	require.Len(t, orphans, 1)
	assert.Equal(t, "p1", orphans[0].ID)
}

func TestSaveProductDefaultsAndValidation(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	p, err := svc.SaveProduct(context.Background(), SaveProductRequest{OutletID: "o1", Name: "Tea", Price: 10})
	require.NoError(t, err)
	assert.True(t, p.IsAvailable, "availability defaults to true")

	unavailable := false
	p, err = svc.SaveProduct(context.Background(), SaveProductRequest{
		ID: p.ID, OutletID: "o1", Name: "Tea", Price: 10, IsAvailable: &unavailable,
	})
	require.NoError(t, err)
	assert.False(t, p.IsAvailable)

	_, err = svc.SaveProduct(context.Background(), SaveProductRequest{OutletID: "o1", Name: "Tea", Price: -1})
	assert.Equal(t, remote.KindInvalid, remote.Classify(err))

	_, err = svc.SaveProduct(context.Background(), SaveProductRequest{Name: "Tea", Price: 1})
	assert.Equal(t, remote.KindInvalid, remote.Classify(err))
}
