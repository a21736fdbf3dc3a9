// Package models contains GORM-specific persistence models that map to
// database tables. They are kept separate from domain entities so the
// domain layer stays free of ORM concerns; mappers convert between the
// two, serializing nested value objects to JSON columns.
package models
