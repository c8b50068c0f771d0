package image

import (
	"log/slog"
	"slices"
)

// An insertion-ordered set of build classes.
//
// The builder runs each class exactly once, in list order, so a class is
// never stored twice. Adding a class that is already present keeps it at
// its original position. Every mutation is recorded to the audit logger.
type ClassSet struct {
	classes []string
	log     *slog.Logger
}

// Creates an empty [ClassSet] that records mutations to log.
//
// A nil logger discards the audit trail.
func NewClassSet(log *slog.Logger) *ClassSet {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &ClassSet{log: log}
}

// Appends a class unless it is already present.
//
// Returns whether the class was added.
func (s *ClassSet) Add(class string) bool {
	if s.Contains(class) {
		s.log.Debug("class already present", "class", class)
		return false
	}
	s.log.Info("adding class", "class", class)
	s.classes = append(s.classes, class)
	return true
}

// Adds each class in order, skipping those already present.
func (s *ClassSet) AddAll(classes []string) {
	for _, c := range classes {
		s.Add(c)
	}
}

// Removes a class.
//
// Returns a [*NotFoundError] if the class is not present.
func (s *ClassSet) Remove(class string) error {
	i := slices.Index(s.classes, class)
	if i < 0 {
		return &NotFoundError{Tag: class}
	}
	s.log.Info("removing class", "class", class)
	s.classes = slices.Delete(s.classes, i, i+1)
	return nil
}

// Whether the class is present.
func (s *ClassSet) Contains(class string) bool {
	return slices.Contains(s.classes, class)
}

// Returns the number of classes.
func (s *ClassSet) Len() int {
	return len(s.classes)
}

// Returns a copy of the classes in insertion order.
func (s *ClassSet) List() []string {
	return slices.Clone(s.classes)
}
