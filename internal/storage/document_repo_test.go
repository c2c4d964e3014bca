package storage

import (
	"context"
	"errors"
	"testing"
)

func testArticle() *Document {
	return &Document{
		Table:   "articles",
		ID:      "LEGIARTI000006419292",
		Dossier: "code_en_vigueur",
		CID:     "LEGITEXT000006070721",
		MTime:   100,
		Attrs: map[string]string{
			"num":  "L1",
			"etat": "VIGUEUR",
			"nota": "<p>Note</p>",
		},
	}
}

func TestDocumentRepo_InsertAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepo(db)
	ctx := context.Background()

	doc := testArticle()
	if err := repo.Insert(ctx, doc); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := repo.Get(ctx, "articles", doc.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Dossier != doc.Dossier || got.CID != doc.CID || got.MTime != doc.MTime {
		t.Errorf("Get() state = %+v, want %+v", got.State(), doc.State())
	}
	if len(got.Attrs) != len(doc.Attrs) {
		t.Errorf("Get() attrs = %v, want %v", got.Attrs, doc.Attrs)
	}
	for k, v := range doc.Attrs {
		if got.Attrs[k] != v {
			t.Errorf("Get() attrs[%s] = %q, want %q", k, got.Attrs[k], v)
		}
	}

	state, err := repo.GetState(ctx, "articles", doc.ID)
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}
	if *state != doc.State() {
		t.Errorf("GetState() = %+v, want %+v", *state, doc.State())
	}
}

func TestDocumentRepo_Insert_Duplicate(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepo(db)
	ctx := context.Background()

	if err := repo.Insert(ctx, testArticle()); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := repo.Insert(ctx, testArticle()); err == nil {
		t.Error("Insert() of an existing id should fail")
	}
}

func TestDocumentRepo_Insert_UnknownColumn(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepo(db)

	doc := testArticle()
	doc.Attrs["titre_ta"] = "not an article column"
	if err := repo.Insert(context.Background(), doc); err == nil {
		t.Error("Insert() with an unknown column should fail")
	}
}

func TestDocumentRepo_UnknownTable(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepo(db)
	ctx := context.Background()

	if _, err := repo.GetState(ctx, "notes", "x"); !errors.Is(err, ErrUnknownTable) {
		t.Errorf("GetState() error = %v, want ErrUnknownTable", err)
	}
	if _, err := repo.Delete(ctx, "notes; DROP TABLE articles", "d", "c", "x"); !errors.Is(err, ErrUnknownTable) {
		t.Errorf("Delete() error = %v, want ErrUnknownTable", err)
	}
}

func TestDocumentRepo_GetState_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepo(db)

	state, err := repo.GetState(context.Background(), "sections", "LEGISCTA000000000000")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetState() error = %v, want ErrNotFound", err)
	}
	if state != nil {
		t.Errorf("GetState() = %+v, want nil", state)
	}
}

func TestDocumentRepo_Update_ClearsAbsentAttributes(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepo(db)
	ctx := context.Background()

	if err := repo.Insert(ctx, testArticle()); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	next := testArticle()
	next.Dossier = "code_non_vigueur"
	next.MTime = 200
	next.Attrs = map[string]string{"num": "L1", "etat": "ABROGE"}
	if err := repo.Update(ctx, next); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.Get(ctx, "articles", next.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Dossier != "code_non_vigueur" || got.MTime != 200 {
		t.Errorf("Get() state = %+v, want updated", got.State())
	}
	if got.Attrs["etat"] != "ABROGE" {
		t.Errorf("Get() etat = %q, want ABROGE", got.Attrs["etat"])
	}
	if _, ok := got.Attrs["nota"]; ok {
		t.Error("Update() should clear nota")
	}
}

func TestDocumentRepo_Update_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepo(db)

	if err := repo.Update(context.Background(), testArticle()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestDocumentRepo_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepo(db)
	ctx := context.Background()

	doc := testArticle()
	if err := repo.Insert(ctx, doc); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	tests := []struct {
		name    string
		dossier string
		cid     string
		want    int64
	}{
		{name: "other dossier", dossier: "code_non_vigueur", cid: doc.CID, want: 0},
		{name: "other cid", dossier: doc.Dossier, cid: "LEGITEXT000000000000", want: 0},
		{name: "matching location", dossier: doc.Dossier, cid: doc.CID, want: 1},
		{name: "already deleted", dossier: doc.Dossier, cid: doc.CID, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := repo.Delete(ctx, "articles", tt.dossier, tt.cid, doc.ID)
			if err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if n != tt.want {
				t.Errorf("Delete() = %d, want %d", n, tt.want)
			}
		})
	}

	count, err := repo.Count(ctx, "articles")
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d, want 0", count)
	}
}
