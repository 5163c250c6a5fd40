package store

// Schema definitions for the course platform dataset.
// Compatible with both SQLite and PostgreSQL. Numeric measure columns use
// NUMERIC so ROUND(AVG(...), 2) behaves identically under both drivers.

const schemaEstudiantes = `
CREATE TABLE IF NOT EXISTS estudiantes (
    estudiante_id TEXT PRIMARY KEY,
    nombre TEXT NOT NULL,
    apellido TEXT NOT NULL
);
`

const schemaCursos = `
CREATE TABLE IF NOT EXISTS cursos (
    curso_id TEXT PRIMARY KEY,
    titulo TEXT NOT NULL,
    precio NUMERIC(10,2) NOT NULL
);
`

const schemaModulos = `
CREATE TABLE IF NOT EXISTS modulos (
    modulo_id TEXT PRIMARY KEY,
    curso_id TEXT NOT NULL,
    titulo TEXT
);

CREATE INDEX IF NOT EXISTS idx_modulos_curso ON modulos(curso_id);
`

const schemaLecciones = `
CREATE TABLE IF NOT EXISTS lecciones (
    leccion_id TEXT PRIMARY KEY,
    modulo_id TEXT NOT NULL,
    titulo TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lecciones_modulo ON lecciones(modulo_id);
`

const schemaInscripciones = `
CREATE TABLE IF NOT EXISTS inscripciones (
    inscripcion_id TEXT PRIMARY KEY,
    estudiante_id TEXT NOT NULL,
    curso_id TEXT NOT NULL,
    fecha_inscripcion TEXT NOT NULL,
    progreso_porcentaje NUMERIC(5,2) NOT NULL DEFAULT 0,
    estado TEXT NOT NULL,
    calificacion_final NUMERIC(4,2)
);

CREATE INDEX IF NOT EXISTS idx_inscripciones_fecha ON inscripciones(fecha_inscripcion);
CREATE INDEX IF NOT EXISTS idx_inscripciones_estado ON inscripciones(estado);
CREATE INDEX IF NOT EXISTS idx_inscripciones_curso ON inscripciones(curso_id);
CREATE INDEX IF NOT EXISTS idx_inscripciones_estudiante ON inscripciones(estudiante_id);
`

const schemaProgresoLecciones = `
CREATE TABLE IF NOT EXISTS progreso_lecciones (
    progreso_id TEXT PRIMARY KEY,
    leccion_id TEXT NOT NULL,
    tiempo_dedicado NUMERIC(8,2) NOT NULL DEFAULT 0,
    ultima_visualizacion TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_progreso_leccion ON progreso_lecciones(leccion_id);
CREATE INDEX IF NOT EXISTS idx_progreso_visualizacion ON progreso_lecciones(ultima_visualizacion);
`

// AllSchemas returns all schema statements in order.
func AllSchemas() []string {
	return []string{
		schemaEstudiantes,
		schemaCursos,
		schemaModulos,
		schemaLecciones,
		schemaInscripciones,
		schemaProgresoLecciones,
	}
}
