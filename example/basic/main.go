package main

import (
	"context"
	"fmt"
	"log"

	collab "github.com/Snaizl101/collab-decision-making"
	"github.com/Snaizl101/collab-decision-making/helper"
	"github.com/Snaizl101/collab-decision-making/model"
	"github.com/google/uuid"
)

func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "discussions",
		Username: "postgres",
		Password: "postgres",
		SSLMode:  "disable",
	}

	engine, err := collab.NewEngine(dbConfig)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	defer engine.Close()

	// A short two-speaker discussion: diarized transcript segments plus the
	// annotations an external analysis model produced for them.
	input := &model.IngestInput{
		Recording: model.RecordingInfo{
			RID:        uuid.New(),
			SourcePath: "meetings/release-planning.wav",
			Duration:   120,
			Format:     "wav",
		},
		Segments: []model.Segment{
			{SpeakerID: "alice", StartTime: 0, EndTime: 12, Text: "Let's talk about the release. I think we should ship on Friday."},
			{SpeakerID: "bob", StartTime: 13, EndTime: 24, Text: "Shipping Friday is risky, QA has not signed off on the release yet."},
			{SpeakerID: "alice", StartTime: 25, EndTime: 38, Text: "Fair point. We could cut the export feature and ship the rest."},
			{SpeakerID: "bob", StartTime: 39, EndTime: 50, Text: "That works for me, the export feature can wait a week."},
		},
		Annotations: model.AnnotationSet{
			Topics: []model.TopicAnnotation{
				{Name: "release", StartTime: floatPtr(0), EndTime: floatPtr(60), Importance: floatPtr(0.9)},
			},
			Arguments: []model.ArgumentAnnotation{
				{Ref: "a1", SpeakerID: "alice", Timestamp: 5, MainClaim: "Ship on Friday", Type: model.ArgumentTypeClaim},
				{Ref: "a2", SpeakerID: "bob", Timestamp: 15, MainClaim: "Friday is risky without QA sign-off", Type: model.ArgumentTypeRebuttal, ParentRef: strPtr("a1"), Confidence: floatPtr(0.8)},
				{Ref: "a3", SpeakerID: "alice", Timestamp: 30, MainClaim: "Cut the export feature and ship the rest", Type: model.ArgumentTypeClaim, ParentRef: strPtr("a2")},
			},
			SupportingPoints: []model.SupportingPointAnnotation{
				{ArgumentRef: "a2", Text: "Twelve bugs are still open in the tracker", Evidence: strPtr("bug tracker snapshot")},
			},
			Sentiments: []model.SentimentAnnotation{
				{SegmentIndex: 0, Score: 0.6},
				{SegmentIndex: 1, Score: -0.4},
				{SegmentIndex: 2, Score: 0.2},
				{SegmentIndex: 3, Score: 0.5},
			},
		},
	}

	fmt.Println("Ingesting recording...")
	result, err := engine.IngestRecording(context.Background(), input, false)
	if err != nil {
		log.Fatalf("Failed to ingest recording: %v", err)
	}
	fmt.Printf("Recording ingested with RID: %s\n", result.Recording.RID)
	for _, warning := range result.Warnings {
		fmt.Printf("Warning: %v\n", warning)
	}

	// Topic timeline
	timeline, err := engine.TopicTimeline(result.Recording.RID)
	if err != nil {
		log.Fatalf("Failed to load topic timeline: %v", err)
	}
	fmt.Println("\nTopic timeline:")
	for i := range timeline.Labels {
		fmt.Printf("  %s: %.0fs - %.0fs\n", timeline.Labels[i], timeline.Start[i], timeline.End[i])
	}

	// Sentiment
	payload, err := engine.Sentiment(result.Recording.RID)
	if err != nil {
		log.Fatalf("Failed to load sentiment: %v", err)
	}
	if payload.Overall != nil {
		fmt.Printf("\nOverall sentiment: %.2f (%s)\n", *payload.Overall, model.ClassifySentiment(*payload.Overall))
	}
	for speaker, score := range payload.SpeakerSentiments {
		fmt.Printf("  %s: %.2f\n", speaker, score)
	}

	// Argument trees
	trees, err := engine.ArgumentTrees(result.Recording.RID)
	if err != nil {
		log.Fatalf("Failed to load argument trees: %v", err)
	}
	fmt.Println("\nArgument threads:")
	for _, tree := range trees {
		fmt.Printf("  Topic %q:\n", tree.TopicName)
		for _, root := range tree.Roots {
			printArgument(root, 2)
		}
	}

	fmt.Println("\nBasic example completed successfully!")
}

func printArgument(node *model.ArgumentNode, indent int) {
	for i := 0; i < indent; i++ {
		fmt.Print(" ")
	}
	fmt.Printf("[%s] %s: %s\n", node.Argument.Type, node.Argument.SpeakerID, node.Argument.MainClaim)
	for _, point := range node.Points {
		for i := 0; i < indent+2; i++ {
			fmt.Print(" ")
		}
		fmt.Printf("* %s\n", point.Text)
	}
	for _, child := range node.Children {
		printArgument(child, indent+2)
	}
}
