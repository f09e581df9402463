package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/futig/course-backend/internal/builder"
	"github.com/futig/course-backend/internal/entity"
	"github.com/futig/course-backend/internal/session"
	"go.uber.org/zap"
)

func main() {
	var (
		env         = flag.String("env", "local", "Environment to run (local, prod, or custom)")
		outlineOnly = flag.Bool("outline-only", false, "Stop after the outline")
		spec        entity.CourseSpec
		difficulty  string
	)
	flag.StringVar(&spec.Title, "title", "", "Course title")
	flag.StringVar(&spec.Audience, "audience", "", "Target audience")
	flag.StringVar(&difficulty, "difficulty", string(entity.DifficultyBeginner), "Beginner, Intermediate or Advanced")
	flag.StringVar(&spec.Duration, "duration", "", "Course duration, free text")
	flag.IntVar(&spec.ChapterCount, "chapters", 5, "Number of chapters (1-15)")
	flag.StringVar(&spec.Objectives, "objectives", "", "Learning objectives")
	flag.StringVar(&spec.Credit, "credit", "", "Course credit")
	flag.Parse()
	spec.Difficulty = entity.Difficulty(difficulty)

	pipeline, err := builder.BuildPipeline(*env)
	if err != nil {
		log.Fatal("Failed to build pipeline:", err)
	}
	defer pipeline.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, pipeline, spec, *outlineOnly); err != nil {
		pipeline.Logger.Error("course generation failed", zap.Error(err))
		pipeline.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, pipeline *builder.Pipeline, spec entity.CourseSpec, outlineOnly bool) error {
	uc := pipeline.Usecase

	s, err := uc.StartSession(ctx)
	if err != nil {
		return err
	}
	defer uc.EndSession(ctx, s.ID)

	outline, err := uc.GenerateOutline(ctx, s, spec)
	if err != nil {
		return fmt.Errorf("generate outline: %w", err)
	}
	fmt.Println(outline.Text)
	printArtifact(s, session.KeyPlanArtifact)

	if outlineOnly {
		return nil
	}

	doc, err := uc.GenerateCourse(ctx, s)
	if err != nil {
		return fmt.Errorf("generate course: %w", err)
	}
	fmt.Printf("\n%d chapters generated\n", len(doc.Chapters))
	printArtifact(s, session.KeyCourseArtifact)
	return nil
}

func printArtifact(s *session.Session, key string) {
	a, ok := s.Artifact(key)
	if !ok {
		return
	}
	if a.Path == "" {
		fmt.Printf("%s rendered (%d bytes, not written)\n", a.Name, len(a.Data))
		return
	}
	fmt.Printf("%s written to %s\n", a.Name, a.Path)
}
