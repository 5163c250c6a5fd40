package store

import (
	"context"
	"fmt"
)

// SeedDemo loads a small demo dataset so a fresh install has something to
// report on. Idempotent: conflicting rows are skipped.
func (s *SQLStore) SeedDemo(ctx context.Context) error {
	stmts := []struct {
		text string
		rows [][]any
	}{
		{
			text: `INSERT INTO estudiantes (estudiante_id, nombre, apellido) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
			rows: [][]any{
				{"est-001", "Ana", "García"},
				{"est-002", "Luis", "Martínez"},
				{"est-003", "Carla", "López"},
				{"est-004", "Diego", "Fernández"},
				{"est-005", "Marta", "Ruiz"},
			},
		},
		{
			text: `INSERT INTO cursos (curso_id, titulo, precio) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
			rows: [][]any{
				{"cur-001", "Introducción a SQL", 49.99},
				{"cur-002", "Go desde cero", 79.99},
				{"cur-003", "Análisis de datos", 129.99},
			},
		},
		{
			text: `INSERT INTO modulos (modulo_id, curso_id, titulo) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
			rows: [][]any{
				{"mod-001", "cur-001", "Consultas básicas"},
				{"mod-002", "cur-002", "Sintaxis"},
				{"mod-003", "cur-003", "Agregaciones"},
			},
		},
		{
			text: `INSERT INTO lecciones (leccion_id, modulo_id, titulo) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
			rows: [][]any{
				{"lec-001", "mod-001", "SELECT y WHERE"},
				{"lec-002", "mod-001", "JOINs"},
				{"lec-003", "mod-002", "Tipos y funciones"},
				{"lec-004", "mod-003", "GROUP BY y HAVING"},
			},
		},
		{
			text: `INSERT INTO inscripciones (inscripcion_id, estudiante_id, curso_id, fecha_inscripcion, progreso_porcentaje, estado, calificacion_final) VALUES (?, ?, ?, ?, ?, ?, ?) ON CONFLICT DO NOTHING`,
			rows: [][]any{
				{"ins-001", "est-001", "cur-001", "2024-01-15", 100, "completado", 9.5},
				{"ins-002", "est-002", "cur-001", "2024-02-20", 45, "en_progreso", nil},
				{"ins-003", "est-003", "cur-002", "2024-03-05", 100, "completado", 8.7},
				{"ins-004", "est-004", "cur-002", "2024-03-18", 10, "pendiente", nil},
				{"ins-005", "est-005", "cur-003", "2024-04-02", 100, "completado", 7.9},
				{"ins-006", "est-001", "cur-003", "2024-04-22", 60, "en_progreso", nil},
				{"ins-007", "est-002", "cur-003", "2024-05-11", 0, "abandonado", nil},
			},
		},
		{
			text: `INSERT INTO progreso_lecciones (progreso_id, leccion_id, tiempo_dedicado, ultima_visualizacion) VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING`,
			rows: [][]any{
				{"pro-001", "lec-001", 12.5, "2024-02-01 10:15:00"},
				{"pro-002", "lec-001", 18.0, "2024-02-03 16:40:00"},
				{"pro-003", "lec-002", 25.0, "2024-02-10 09:05:00"},
				{"pro-004", "lec-003", 40.5, "2024-03-12 20:30:00"},
				{"pro-005", "lec-004", 55.0, "2024-04-15 11:00:00"},
				{"pro-006", "lec-004", 48.0, "2024-04-20 14:45:00"},
			},
		},
	}

	for _, stmt := range stmts {
		for _, row := range stmt.rows {
			if _, err := s.db.ExecContext(ctx, s.rebind(stmt.text), row...); err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
		}
	}
	return nil
}
