package handlers_test

import (
	"context"
	"io"

	"github.com/Romer4ig/image-moderation/internal/domain/collection"
	"github.com/Romer4ig/image-moderation/internal/domain/generation"
	"github.com/Romer4ig/image-moderation/internal/domain/grid"
	"github.com/Romer4ig/image-moderation/internal/domain/selection"
)

// MockGenerationService is a mock implementation of generation.Service for testing.
type MockGenerationService struct {
	MergeFunc           func(ctx context.Context, projectID string, collectionID int64) (*generation.MergeResult, error)
	DispatchBatchFunc   func(ctx context.Context, pairs []generation.Pair, callbackBase string) (*generation.BatchReport, error)
	ProcessCallbackFunc func(ctx context.Context, generationID string, cb generation.Callback) (*generation.CallbackOutcome, error)
	ReindexFunc         func(ctx context.Context, projectID string) (*generation.ReindexReport, error)
	OpenFileFunc        func(ctx context.Context, fileID int64) (*generation.File, string, error)
}

func (m *MockGenerationService) Merge(ctx context.Context, projectID string, collectionID int64) (*generation.MergeResult, error) {
	if m.MergeFunc != nil {
		return m.MergeFunc(ctx, projectID, collectionID)
	}
	return nil, nil
}

func (m *MockGenerationService) DispatchBatch(ctx context.Context, pairs []generation.Pair, callbackBase string) (*generation.BatchReport, error) {
	if m.DispatchBatchFunc != nil {
		return m.DispatchBatchFunc(ctx, pairs, callbackBase)
	}
	return &generation.BatchReport{}, nil
}

func (m *MockGenerationService) ProcessCallback(ctx context.Context, generationID string, cb generation.Callback) (*generation.CallbackOutcome, error) {
	if m.ProcessCallbackFunc != nil {
		return m.ProcessCallbackFunc(ctx, generationID, cb)
	}
	return &generation.CallbackOutcome{}, nil
}

func (m *MockGenerationService) Reindex(ctx context.Context, projectID string) (*generation.ReindexReport, error) {
	if m.ReindexFunc != nil {
		return m.ReindexFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *MockGenerationService) OpenFile(ctx context.Context, fileID int64) (*generation.File, string, error) {
	if m.OpenFileFunc != nil {
		return m.OpenFileFunc(ctx, fileID)
	}
	return nil, "", nil
}

// MockGridService is a mock implementation of grid.Service for testing.
type MockGridService struct {
	GridFunc              func(ctx context.Context, q grid.Query) (*grid.Page, error)
	SelectionDataFunc     func(ctx context.Context, collectionID int64, projectIDs []string, initialProjectID string) (*grid.SelectionData, error)
	SelectionShellFunc    func(ctx context.Context, collectionID int64, initialProjectID string) (*grid.SelectionShell, error)
	SelectionAttemptsFunc func(ctx context.Context, collectionID int64, projectID string) ([]generation.Generation, error)
}

func (m *MockGridService) Grid(ctx context.Context, q grid.Query) (*grid.Page, error) {
	if m.GridFunc != nil {
		return m.GridFunc(ctx, q)
	}
	return &grid.Page{}, nil
}

func (m *MockGridService) SelectionData(ctx context.Context, collectionID int64, projectIDs []string, initialProjectID string) (*grid.SelectionData, error) {
	if m.SelectionDataFunc != nil {
		return m.SelectionDataFunc(ctx, collectionID, projectIDs, initialProjectID)
	}
	return &grid.SelectionData{}, nil
}

func (m *MockGridService) SelectionShell(ctx context.Context, collectionID int64, initialProjectID string) (*grid.SelectionShell, error) {
	if m.SelectionShellFunc != nil {
		return m.SelectionShellFunc(ctx, collectionID, initialProjectID)
	}
	return &grid.SelectionShell{}, nil
}

func (m *MockGridService) SelectionAttempts(ctx context.Context, collectionID int64, projectID string) ([]generation.Generation, error) {
	if m.SelectionAttemptsFunc != nil {
		return m.SelectionAttemptsFunc(ctx, collectionID, projectID)
	}
	return []generation.Generation{}, nil
}

// MockSelectionService is a mock implementation of selection.Service for testing.
type MockSelectionService struct {
	SelectFunc func(ctx context.Context, req selection.Request) (*selection.Result, error)
}

func (m *MockSelectionService) Select(ctx context.Context, req selection.Request) (*selection.Result, error) {
	if m.SelectFunc != nil {
		return m.SelectFunc(ctx, req)
	}
	return &selection.Result{}, nil
}

// MockCollectionService is a mock implementation of collection.Service for testing.
type MockCollectionService struct {
	CreateFunc    func(ctx context.Context, params collection.CreateParams) (*collection.Collection, error)
	GetFunc       func(ctx context.Context, id int64) (*collection.Collection, error)
	ListFunc      func(ctx context.Context) ([]collection.Collection, error)
	UpdateFunc    func(ctx context.Context, id int64, params collection.UpdateParams) (*collection.Collection, error)
	DeleteFunc    func(ctx context.Context, id int64) (*collection.Collection, error)
	ImportCSVFunc func(ctx context.Context, r io.Reader) (*collection.ImportReport, error)
}

func (m *MockCollectionService) Create(ctx context.Context, params collection.CreateParams) (*collection.Collection, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockCollectionService) Get(ctx context.Context, id int64) (*collection.Collection, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCollectionService) List(ctx context.Context) ([]collection.Collection, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []collection.Collection{}, nil
}

func (m *MockCollectionService) Update(ctx context.Context, id int64, params collection.UpdateParams) (*collection.Collection, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *MockCollectionService) Delete(ctx context.Context, id int64) (*collection.Collection, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCollectionService) ImportCSV(ctx context.Context, r io.Reader) (*collection.ImportReport, error) {
	if m.ImportCSVFunc != nil {
		return m.ImportCSVFunc(ctx, r)
	}
	return &collection.ImportReport{}, nil
}
