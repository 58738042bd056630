package state

import (
	"geoboard/geom"
	"geoboard/logging"
)

// Session tracks one held-down pointer from press to release.
type Session struct {
	ID     PointerID
	Origin geom.Vec
	Delta  geom.Vec

	point       *DragPoint
	pointOrigin geom.Vec
	detached    bool
}

// Bound returns the name of the point the session drags.
func (ss *Session) Bound() (string, bool) {
	if ss.point == nil {
		return "", false
	}
	return ss.point.Name, true
}

// Detached reports whether the session lost its point to a reset. A
// detached session never binds again.
func (ss *Session) Detached() bool { return ss.detached }

// Cursor returns the latest known pointer position.
func (s *State) Cursor() (geom.Vec, bool) {
	return s.cursor, s.hasCursor
}

// Session returns the live session for id.
func (s *State) Session(id PointerID) (*Session, bool) {
	ss, ok := s.sessions[id]
	return ss, ok
}

// SessionCount returns the number of live sessions.
func (s *State) SessionCount() int { return len(s.sessions) }

// PointerDown starts a session for id at pos. A second press for an id
// that is already down restarts its session.
func (s *State) PointerDown(id PointerID, pos geom.Vec) {
	if _, ok := s.sessions[id]; ok {
		s.endSession(id)
	}
	s.sessions[id] = &Session{ID: id, Origin: pos}
	s.sessionOrder = append(s.sessionOrder, id)
	s.cursor, s.hasCursor = pos, true
}

// PointerMove records the latest position of id. Moves without a session
// only move the cursor.
func (s *State) PointerMove(id PointerID, pos geom.Vec) {
	if ss, ok := s.sessions[id]; ok {
		ss.Delta = pos.Sub(ss.Origin)
	}
	s.cursor, s.hasCursor = pos, true
}

// PointerUp ends the session for id with a final position. Cancel is
// handled the same way.
func (s *State) PointerUp(id PointerID, pos geom.Vec) {
	if ss, ok := s.sessions[id]; ok {
		ss.Delta = pos.Sub(ss.Origin)
		s.endSession(id)
	}
	s.cursor, s.hasCursor = pos, true
}

// PointerLeave ends the session for id. The cursor is forgotten once no
// session remains.
func (s *State) PointerLeave(id PointerID) {
	if _, ok := s.sessions[id]; ok {
		s.endSession(id)
	}
	if len(s.sessions) == 0 {
		s.hasCursor = false
	}
}

// endSession applies the session's final delta to its point, records the
// move and drops the session.
func (s *State) endSession(id PointerID) {
	ss := s.sessions[id]
	if p := ss.point; p != nil && s.points[p.Name] == p {
		p.Pos = ss.pointOrigin.Add(ss.Delta)
		if p.Pos != ss.pointOrigin {
			s.moves = append(s.moves, Move{Name: p.Name, From: ss.pointOrigin, To: p.Pos})
		}
	}
	delete(s.sessions, id)
	for i, sid := range s.sessionOrder {
		if sid == id {
			s.sessionOrder = append(s.sessionOrder[:i], s.sessionOrder[i+1:]...)
			break
		}
	}
}

// UpdateDrags binds unbound sessions to their nearest free point and moves
// every bound point to its bind-time position plus the session's delta.
// It reports whether any session is dragging a point.
func (s *State) UpdateDrags() bool {
	dragging := false
	for _, id := range s.sessionOrder {
		ss := s.sessions[id]
		if ss.detached {
			continue
		}
		if ss.point != nil && s.points[ss.point.Name] != ss.point {
			logging.Logger().Debug("session detached by reset", "pointer", int64(id), "point", ss.point.Name)
			ss.point = nil
			ss.detached = true
			continue
		}
		if ss.point == nil {
			p := s.nearestTo(ss.Origin, func(p *DragPoint) bool {
				return s.dragging(p)
			})
			if p == nil {
				continue
			}
			ss.point = p
			ss.pointOrigin = p.Pos
			p.Owner = id
			logging.Logger().Debug("pointer bound", "pointer", int64(id), "point", p.Name)
		}
		ss.point.Pos = ss.pointOrigin.Add(ss.Delta)
		dragging = true
	}
	return dragging
}
