package syncer

import (
	"context"
	"fmt"
	"sort"

	"github.com/iudanet/docsync/internal/crdt"
	"github.com/iudanet/docsync/internal/models"
	"github.com/iudanet/docsync/internal/storage"
)

// ApplyResult contains apply operation results
type ApplyResult struct {
	Anomalies  []Anomaly // Anomalies записи, проигравшие LWW
	Origins    []string  // Origins узлы, чьи записи изменили хранилище
	Gaps       []string  // Gaps узлы, у которых пропущена предшествующая запись
	Applied    int       // количество записей, изменивших хранилище
	Skipped    int       // количество записей ниже курсора (уже обработаны)
	AfterGap   int       // количество записей за пропуском: применены, курсор не сдвинут
	Duplicates int       // количество сущностей с уже примененной версией
	Stale      int       // количество сущностей, где локальная версия новее
	Invalid    int       // количество записей, нарушающих инварианты
}

// Apply merges one burst of remote records into the store in a single transaction.
// Records are processed in (origin, sequence) order; records at or below the
// origin's cursor are skipped. A record whose Previous is above the cursor
// follows a record this peer never got: it and the rest of that origin's
// records are still applied, but the cursor stays below the gap so catch-up
// redelivers them, and the origin is reported in Gaps. Otherwise the cursor advances past every processed record,
// applied or discarded, and is persisted in the same transaction.
// Synced and ConvergenceAnomaly events are raised after commit.
func (e *Engine) Apply(ctx context.Context, records []models.ChangeRecord) (*ApplyResult, error) {
	result, err := e.apply(ctx, records)
	if err != nil {
		return nil, err
	}

	for _, anomaly := range result.Anomalies {
		e.events.anomaly.emit(anomaly)
	}
	if result.Applied > 0 {
		e.events.synced.emit(SyncedEvent{Applied: result.Applied, Origins: result.Origins})
	}
	return result, nil
}

func (e *Engine) apply(ctx context.Context, records []models.ChangeRecord) (*ApplyResult, error) {
	sorted := make([]models.ChangeRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].OriginPeer != sorted[j].OriginPeer {
			return sorted[i].OriginPeer < sorted[j].OriginPeer
		}
		return sorted[i].Sequence < sorted[j].Sequence
	})

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	tx, err := e.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result := &ApplyResult{}
	advanced := make(map[string]uint64)
	origins := make(map[string]struct{})
	gaps := make(map[string]struct{})
	var highest uint64

	for i := range sorted {
		record := &sorted[i]

		if err := record.Validate(); err != nil {
			e.logger.Warn("Skipping invalid record", "origin", record.OriginPeer, "error", err)
			result.Invalid++
			continue
		}
		if record.OriginPeer == e.PeerID() {
			result.Skipped++
			continue
		}

		position := max(e.cursor.Position(record.OriginPeer), advanced[record.OriginPeer])
		if record.Sequence <= position {
			result.Skipped++
			continue
		}
		_, gap := gaps[record.OriginPeer]
		if !gap && record.Previous > position {
			e.logger.Debug("Gap before record, cursor kept",
				"origin", record.OriginPeer,
				"sequence", record.Sequence,
				"previous", record.Previous,
				"cursor", position)
			gaps[record.OriginPeer] = struct{}{}
			gap = true
		}

		applied, err := e.applyRecord(tx, record, result)
		if err != nil {
			return nil, fmt.Errorf("failed to apply record %s/%d: %w", record.OriginPeer, record.Sequence, err)
		}

		if gap {
			result.AfterGap++
		} else {
			advanced[record.OriginPeer] = record.Sequence
		}
		highest = max(highest, record.Sequence)
		if applied {
			result.Applied++
			origins[record.OriginPeer] = struct{}{}
		}
	}

	for origin := range gaps {
		result.Gaps = append(result.Gaps, origin)
	}
	sort.Strings(result.Gaps)

	if highest == 0 {
		return result, nil
	}

	for origin, sequence := range advanced {
		if err := tx.SetCursor(origin, sequence); err != nil {
			return nil, fmt.Errorf("failed to save cursor: %w", err)
		}
	}
	// Local sequences must outrank every version seen so far
	if err := tx.SetSequence(max(e.clock.Current(), highest)); err != nil {
		return nil, fmt.Errorf("failed to save sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	for origin, sequence := range advanced {
		e.cursor.Advance(origin, sequence)
	}
	e.clock.Witness(highest)

	for origin := range origins {
		result.Origins = append(result.Origins, origin)
	}
	sort.Strings(result.Origins)

	e.metrics.applied.Add(float64(result.Applied))
	e.metrics.afterGap.Add(float64(result.AfterGap))
	e.metrics.discarded.WithLabelValues(reasonDuplicate).Add(float64(result.Duplicates + result.Skipped))
	e.metrics.discarded.WithLabelValues(reasonStale).Add(float64(result.Stale))

	e.logger.Debug("Burst applied",
		"records", len(records),
		"applied", result.Applied,
		"skipped", result.Skipped,
		"after_gap", result.AfterGap,
		"duplicates", result.Duplicates,
		"stale", result.Stale)

	return result, nil
}

// applyRecord applies one record per entity id and reports whether any entity changed
func (e *Engine) applyRecord(tx storage.Tx, record *models.ChangeRecord, result *ApplyResult) (bool, error) {
	if record.Kind.HasPayload() {
		id := record.EntityID.Scalar()
		wins, err := e.resolve(tx, record, id, result)
		if err != nil || !wins {
			return false, err
		}

		doc := models.Document{ID: id, Data: record.Payload}
		if _, err := tx.Upsert(record.Collection, doc); err != nil {
			return false, fmt.Errorf("failed to write document: %w", err)
		}
		if err := tx.SetProvenance(record.Collection, id, models.Provenance{Stamp: record.Stamp()}); err != nil {
			return false, fmt.Errorf("failed to set provenance: %w", err)
		}
		return true, nil
	}

	changed := false
	for _, id := range record.EntityID.IDs() {
		wins, err := e.resolve(tx, record, id, result)
		if err != nil {
			return false, err
		}
		if !wins {
			continue
		}

		// Tombstone is stored even when the document was never seen here,
		// so an older insert delivered later loses.
		if _, err := tx.Delete(record.Collection, id); err != nil {
			return false, fmt.Errorf("failed to delete document: %w", err)
		}
		if err := tx.SetProvenance(record.Collection, id, models.Provenance{Stamp: record.Stamp(), Deleted: true}); err != nil {
			return false, fmt.Errorf("failed to set provenance: %w", err)
		}
		changed = true
	}
	return changed, nil
}

// resolve compares the record with the stored provenance of id
func (e *Engine) resolve(tx storage.Tx, record *models.ChangeRecord, id string, result *ApplyResult) (bool, error) {
	current, err := tx.Provenance(record.Collection, id)
	if err != nil {
		return false, fmt.Errorf("failed to get provenance: %w", err)
	}

	switch crdt.Resolve(record.Stamp(), current) {
	case crdt.VerdictApply:
		e.logger.Debug("Merging record (new wins)",
			"collection", record.Collection,
			"entity_id", id,
			"kind", record.Kind,
			"origin", record.OriginPeer,
			"sequence", record.Sequence)
		return true, nil
	case crdt.VerdictDuplicate:
		result.Duplicates++
		return false, nil
	default:
		e.logger.Debug("Skipping record (existing is newer)",
			"collection", record.Collection,
			"entity_id", id,
			"origin", record.OriginPeer,
			"sequence", record.Sequence,
			"winner_origin", current.Origin,
			"winner_sequence", current.Sequence)
		result.Stale++
		result.Anomalies = append(result.Anomalies, Anomaly{
			Record:   record.Clone(),
			EntityID: id,
			Winner:   current.Stamp,
		})
		return false, nil
	}
}
