package patients

import (
	"context"
	"errors"
	"testing"

	"github.com/oakcrest-health/kiosk/internal/drchrono"
)

func TestEnsureCreatesOnFirstReference(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, nil)

	p, err := svc.Ensure(context.Background(), drchrono.PatientRecord{
		ID:           42,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		PatientPhoto: "https://cdn.example.com/ada.jpg",
	})
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if p.ID != 42 {
		t.Errorf("ID = %d, want 42", p.ID)
	}
	if p.FullName() != "Ada Lovelace" {
		t.Errorf("FullName = %q", p.FullName())
	}

	stored, err := repo.GetByID(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetByID after Ensure: %v", err)
	}
	if stored.PhotoURL != "https://cdn.example.com/ada.jpg" {
		t.Errorf("PhotoURL = %q", stored.PhotoURL)
	}
}

func TestEnsureReturnsExistingWithoutUpdate(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, nil)

	if _, err := svc.Ensure(context.Background(), drchrono.PatientRecord{ID: 7, FirstName: "Ada", LastName: "Lovelace"}); err != nil {
		t.Fatalf("first Ensure: %v", err)
	}

	// Same id with different names: stored fields must stay as created.
	p, err := svc.Ensure(context.Background(), drchrono.PatientRecord{ID: 7, FirstName: "Augusta", LastName: "King"})
	if err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
	if p.FirstName != "Ada" || p.LastName != "Lovelace" {
		t.Errorf("existing patient was modified: %+v", p)
	}
}

func TestEnsureMissingIDFails(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, nil)

	_, err := svc.Ensure(context.Background(), drchrono.PatientRecord{FirstName: "Ada", LastName: "Lovelace"})
	if !errors.Is(err, ErrInvalidPatientRecord) {
		t.Fatalf("err = %v, want ErrInvalidPatientRecord", err)
	}
}

func TestInMemoryCreateIsIdempotent(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, &Patient{ID: 1, FirstName: "Ada"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, &Patient{ID: 1, FirstName: "Grace"}); err != nil {
		t.Fatalf("second Create: %v", err)
	}

	p, err := repo.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if p.FirstName != "Ada" {
		t.Errorf("existing row should be kept, got first_name=%q", p.FirstName)
	}
}
