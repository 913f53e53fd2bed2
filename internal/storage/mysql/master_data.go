package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mes-scheduler/internal/storage"
)

func (s *Storage) GetDevices(ctx context.Context) ([]*storage.Device, error) {
	const op = "storage.mysql.master_data.GetDevices"

	stmt := `SELECT id, code, name, status, capacity_per_hour, scheduling_weight, is_available_for_scheduling
			 FROM devices
			 ORDER BY id`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var devices []*storage.Device
	for rows.Next() {
		device := &storage.Device{}

		err := rows.Scan(&device.ID, &device.Code, &device.Name, &device.Status,
			&device.CapacityPerHour, &device.SchedulingWeight, &device.IsAvailableForScheduling)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		devices = append(devices, device)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return devices, nil
}

func (s *Storage) GetMolds(ctx context.Context) ([]*storage.Mold, error) {
	const op = "storage.mysql.master_data.GetMolds"

	stmt := `SELECT id, code, name, status, scheduling_weight FROM molds ORDER BY id`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var molds []*storage.Mold
	for rows.Next() {
		mold := &storage.Mold{}

		err := rows.Scan(&mold.ID, &mold.Code, &mold.Name, &mold.Status, &mold.SchedulingWeight)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		molds = append(molds, mold)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return molds, nil
}

func (s *Storage) GetMaterials(ctx context.Context) ([]*storage.Material, error) {
	const op = "storage.mysql.master_data.GetMaterials"

	stmt := `SELECT id, code, name, unit, default_device_id, default_mold_id FROM materials ORDER BY id`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var materials []*storage.Material
	for rows.Next() {
		material := &storage.Material{}
		var defaultDevice, defaultMold sql.NullInt64

		err := rows.Scan(&material.ID, &material.Code, &material.Name, &material.Unit,
			&defaultDevice, &defaultMold)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if defaultDevice.Valid {
			material.DefaultDeviceID = &defaultDevice.Int64
		}
		if defaultMold.Valid {
			material.DefaultMoldID = &defaultMold.Int64
		}

		materials = append(materials, material)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return materials, nil
}

func (s *Storage) GetMaterialDeviceRelations(ctx context.Context) ([]storage.MaterialDeviceRelation, error) {
	const op = "storage.mysql.master_data.GetMaterialDeviceRelations"

	stmt := `SELECT material_id, device_id, weight FROM material_device_relations`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var relations []storage.MaterialDeviceRelation
	for rows.Next() {
		var rel storage.MaterialDeviceRelation

		if err := rows.Scan(&rel.MaterialID, &rel.DeviceID, &rel.Weight); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		relations = append(relations, rel)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return relations, nil
}

func (s *Storage) GetMaterialMoldRelations(ctx context.Context) ([]storage.MaterialMoldRelation, error) {
	const op = "storage.mysql.master_data.GetMaterialMoldRelations"

	stmt := `SELECT material_id, mold_id, weight, cycle_time_seconds, output_per_cycle
			 FROM material_mold_relations`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var relations []storage.MaterialMoldRelation
	for rows.Next() {
		var rel storage.MaterialMoldRelation

		err := rows.Scan(&rel.MaterialID, &rel.MoldID, &rel.Weight, &rel.CycleTimeSeconds, &rel.OutputPerCycle)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		relations = append(relations, rel)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return relations, nil
}

func (s *Storage) GetMoldDeviceRelations(ctx context.Context) ([]storage.MoldDeviceRelation, error) {
	const op = "storage.mysql.master_data.GetMoldDeviceRelations"

	stmt := `SELECT mold_id, device_id, is_primary FROM mold_device_relations`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var relations []storage.MoldDeviceRelation
	for rows.Next() {
		var rel storage.MoldDeviceRelation

		if err := rows.Scan(&rel.MoldID, &rel.DeviceID, &rel.IsPrimary); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		relations = append(relations, rel)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return relations, nil
}

// UpdateDeviceScheduling mutates only the scheduling-extension columns of a
// device, never the master record.
func (s *Storage) UpdateDeviceScheduling(ctx context.Context, deviceID int64, update storage.DeviceSchedulingUpdate) error {
	const op = "storage.mysql.master_data.UpdateDeviceScheduling"

	stmt := `UPDATE devices
			 SET capacity_per_hour = ?, scheduling_weight = ?, is_available_for_scheduling = ?
			 WHERE id = ?`

	res, err := s.db.ExecContext(ctx, stmt,
		update.CapacityPerHour, update.SchedulingWeight, update.IsAvailableForScheduling, deviceID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		// MySQL also reports 0 when the values did not change, so confirm
		// the row is actually missing before failing.
		var exists int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM devices WHERE id = ?`, deviceID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: device %d: %w", op, deviceID, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

func (s *Storage) UpdateMaterialScheduling(ctx context.Context, materialID int64, update storage.MaterialSchedulingUpdate) error {
	const op = "storage.mysql.master_data.UpdateMaterialScheduling"

	stmt := `UPDATE materials SET default_device_id = ?, default_mold_id = ? WHERE id = ?`

	var defaultDevice, defaultMold sql.NullInt64
	if update.DefaultDeviceID != nil {
		defaultDevice = sql.NullInt64{Int64: *update.DefaultDeviceID, Valid: true}
	}
	if update.DefaultMoldID != nil {
		defaultMold = sql.NullInt64{Int64: *update.DefaultMoldID, Valid: true}
	}

	res, err := s.db.ExecContext(ctx, stmt, defaultDevice, defaultMold, materialID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		var exists int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM materials WHERE id = ?`, materialID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: material %d: %w", op, materialID, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}
