package board

func (b *Board) load() {
	if b.storage == nil {
		return
	}
	raw, ok, err := b.storage.GetItem(StorageKey)
	if err != nil {
		b.log.WithError(err).Warn("could not read saved timers")
		return
	}
	if !ok || raw == "" {
		return
	}
	timers, err := Decode([]byte(raw))
	if err != nil {
		b.log.WithError(err).Warn("discarding saved timers")
		return
	}

	b.timers = make([]*Timer, 0, len(timers))
	for i := range timers {
		t := timers[i]
		t.mode = tickIdle
		t.warningSeconds = b.opts.WarningSeconds
		b.timers = append(b.timers, &t)
		if t.ID > b.lastID {
			b.lastID = t.ID
		}
	}
	b.log.WithField("count", len(b.timers)).Info("restored timers")
}

func (b *Board) save() {
	if b.storage == nil {
		return
	}
	data, err := Encode(b.snapshotLocked().Timers)
	if err != nil {
		b.log.WithError(err).Error("could not encode timers")
		return
	}
	if err := b.storage.SetItem(StorageKey, string(data)); err != nil {
		b.log.WithError(err).Error("could not save timers")
	}
}
