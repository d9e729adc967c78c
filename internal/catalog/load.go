package catalog

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	FallaciesFile      = "fallacies.json"
	TopicsFile         = "topics.json"
	TopicsCSVFile      = "topics.csv"
	CivilizationsFile  = "civilizations.json"
	ConfrontationsFile = "confrontations.json"
)

// Load reads the catalog files from dir. topics.csv (text,difficulty) is
// used when topics.json is absent. confrontations.json is optional.
func Load(dir string) (*Catalog, error) {
	var fallacies []Fallacy
	if err := readJSON(filepath.Join(dir, FallaciesFile), &fallacies); err != nil {
		return nil, err
	}

	topics, err := loadTopics(dir)
	if err != nil {
		return nil, err
	}

	var civs []Civilization
	if err := readJSON(filepath.Join(dir, CivilizationsFile), &civs); err != nil {
		return nil, err
	}

	var confrontations []Confrontation
	err = readJSON(filepath.Join(dir, ConfrontationsFile), &confrontations)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	c := New(fallacies, topics, civs, confrontations)
	f, t, cv, p := c.Sizes()
	log.Info().Str("dir", dir).Msgf("[catalog.Load] loaded %d fallacies, %d topics, %d civilizations, %d confrontation pairs", f, t, cv, p)
	return c, nil
}

func loadTopics(dir string) ([]Topic, error) {
	var topics []Topic
	err := readJSON(filepath.Join(dir, TopicsFile), &topics)
	if err == nil {
		return topics, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return ReadTopicsCSV(filepath.Join(dir, TopicsCSVFile))
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// ReadTopicsCSV parses "text,difficulty" records. Malformed rows are skipped.
func ReadTopicsCSV(path string) ([]Topic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var topics []Topic
	for _, record := range records {
		if len(record) < 2 {
			log.Warn().Strs("record", record).Msg("[catalog.ReadTopicsCSV] skipping invalid record")
			continue
		}
		difficulty, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil {
			log.Warn().Str("value", record[1]).Msg("[catalog.ReadTopicsCSV] invalid difficulty")
			continue
		}
		topics = append(topics, Topic{Text: strings.TrimSpace(record[0]), Difficulty: difficulty})
	}
	return topics, nil
}
