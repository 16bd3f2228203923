// seed-skills loads the skill catalog from a YAML file into the
// skills table. Reseeding is safe: rows are matched by name and
// updated in place.
//
// Usage: go run ./scripts/seed-skills [-file scripts/seed-skills/skills.yaml]
//
// Database connection: uses the standard PG* environment variables,
// or DATABASE_URL when set.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"gopkg.in/yaml.v3"
)

type seedSkill struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Type        string `yaml:"type"`
	Category    string `yaml:"category"`
}

type seedFile struct {
	Skills []seedSkill `yaml:"skills"`
}

func main() {
	file := flag.String("file", "scripts/seed-skills/skills.yaml", "path to the skill catalog YAML")
	flag.Parse()

	if err := run(*file); err != nil {
		fmt.Fprintf(os.Stderr, "seed-skills: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}
	if len(seed.Skills) == 0 {
		return fmt.Errorf("seed file %s contains no skills", path)
	}

	for i, s := range seed.Skills {
		if s.Name == "" || (s.Type != "hard" && s.Type != "soft") {
			return fmt.Errorf("invalid skill at index %d: name=%q type=%q", i, s.Name, s.Type)
		}
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)

	written, unchanged := 0, 0
	for _, s := range seed.Skills {
		var category *string
		if s.Category != "" {
			category = &s.Category
		}

		tag, err := conn.Exec(ctx, `
			INSERT INTO skills (name, description, type, category)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO UPDATE
			SET description = EXCLUDED.description,
			    type = EXCLUDED.type,
			    category = EXCLUDED.category
			WHERE skills.description IS DISTINCT FROM EXCLUDED.description
			   OR skills.type IS DISTINCT FROM EXCLUDED.type
			   OR skills.category IS DISTINCT FROM EXCLUDED.category`,
			s.Name, s.Description, s.Type, category)
		if err != nil {
			return fmt.Errorf("upsert skill %q: %w", s.Name, err)
		}
		if tag.RowsAffected() > 0 {
			written++
		} else {
			unchanged++
		}
	}

	fmt.Printf("seeded %d skills (%d written, %d unchanged)\n", len(seed.Skills), written, unchanged)
	return nil
}
