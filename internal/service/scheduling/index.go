package scheduling

import (
	"context"
	"fmt"
	"mes-scheduler/internal/storage"

	"golang.org/x/sync/errgroup"
)

type MasterDataStorage interface {
	GetDevices(ctx context.Context) ([]*storage.Device, error)
	GetMolds(ctx context.Context) ([]*storage.Mold, error)
	GetMaterials(ctx context.Context) ([]*storage.Material, error)
	GetMaterialDeviceRelations(ctx context.Context) ([]storage.MaterialDeviceRelation, error)
	GetMaterialMoldRelations(ctx context.Context) ([]storage.MaterialMoldRelation, error)
	GetMoldDeviceRelations(ctx context.Context) ([]storage.MoldDeviceRelation, error)
}

// MasterDataIndex is the adjacency view the allocator scores against,
// built once per run instead of re-queried per candidate.
type MasterDataIndex struct {
	Devices   map[int64]*storage.Device
	Molds     map[int64]*storage.Mold
	Materials map[int64]*storage.Material

	// Relation lists keyed by material id.
	DeviceRelations map[int64][]storage.MaterialDeviceRelation
	MoldRelations   map[int64][]storage.MaterialMoldRelation

	// Physical mold↔device compatibility, keyed by mold id.
	MoldDevices map[int64]map[int64]bool
}

// BuildIndex loads all scheduling master data in parallel and assembles the
// adjacency maps.
func BuildIndex(ctx context.Context, store MasterDataStorage) (*MasterDataIndex, error) {
	const op = "service.scheduling.BuildIndex"

	var (
		devices   []*storage.Device
		molds     []*storage.Mold
		materials []*storage.Material
		devRels   []storage.MaterialDeviceRelation
		moldRels  []storage.MaterialMoldRelation
		moldDevs  []storage.MoldDeviceRelation
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		devices, err = store.GetDevices(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		molds, err = store.GetMolds(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		materials, err = store.GetMaterials(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		devRels, err = store.GetMaterialDeviceRelations(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		moldRels, err = store.GetMaterialMoldRelations(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		moldDevs, err = store.GetMoldDeviceRelations(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	idx := &MasterDataIndex{
		Devices:         make(map[int64]*storage.Device, len(devices)),
		Molds:           make(map[int64]*storage.Mold, len(molds)),
		Materials:       make(map[int64]*storage.Material, len(materials)),
		DeviceRelations: make(map[int64][]storage.MaterialDeviceRelation),
		MoldRelations:   make(map[int64][]storage.MaterialMoldRelation),
		MoldDevices:     make(map[int64]map[int64]bool),
	}

	for _, d := range devices {
		idx.Devices[d.ID] = d
	}
	for _, m := range molds {
		idx.Molds[m.ID] = m
	}
	for _, m := range materials {
		idx.Materials[m.ID] = m
	}
	for _, rel := range devRels {
		idx.DeviceRelations[rel.MaterialID] = append(idx.DeviceRelations[rel.MaterialID], rel)
	}
	for _, rel := range moldRels {
		idx.MoldRelations[rel.MaterialID] = append(idx.MoldRelations[rel.MaterialID], rel)
	}
	for _, rel := range moldDevs {
		if idx.MoldDevices[rel.MoldID] == nil {
			idx.MoldDevices[rel.MoldID] = make(map[int64]bool)
		}
		idx.MoldDevices[rel.MoldID][rel.DeviceID] = true
	}

	return idx, nil
}

// MoldRunsOnDevice reports physical compatibility.
func (idx *MasterDataIndex) MoldRunsOnDevice(moldID, deviceID int64) bool {
	return idx.MoldDevices[moldID][deviceID]
}
