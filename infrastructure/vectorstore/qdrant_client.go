package vectorstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	qdrant "github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/proto"

	"code-command-generator/domain"
)

// DefaultVectorSize matches OpenAI text-embedding-3-small.
const DefaultVectorSize = 1536

// QdrantClient implements domain.ArtifactStore using Qdrant.
type QdrantClient struct {
	conn           *grpc.ClientConn
	client         qdrant.PointsClient
	collectionName string
	logger         *zap.Logger
}

// NewQdrantClient connects to Qdrant at addr and ensures the collection exists.
func NewQdrantClient(ctx context.Context, addr, collectionName string, vectorSize uint64, logger *zap.Logger) (*QdrantClient, error) {
	if addr == "" {
		return nil, fmt.Errorf("qdrant address is required")
	}
	if collectionName == "" {
		collectionName = "cmdgen_artifacts"
	}
	if vectorSize == 0 {
		vectorSize = DefaultVectorSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("could not connect to Qdrant: %w", err)
	}

	client := &QdrantClient{
		conn:           conn,
		client:         qdrant.NewPointsClient(conn),
		collectionName: collectionName,
		logger:         logger,
	}

	if err := client.ensureCollectionExists(ctx, qdrant.NewCollectionsClient(conn), vectorSize); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ensure collection exists: %w", err)
	}

	return client, nil
}

// Close releases the gRPC connection.
func (c *QdrantClient) Close() error {
	return c.conn.Close()
}

// ensureCollectionExists checks if the collection exists and creates it if it doesn't.
func (c *QdrantClient) ensureCollectionExists(ctx context.Context, collectionsClient qdrant.CollectionsClient, vectorSize uint64) error {
	_, err := collectionsClient.Get(ctx, &qdrant.GetCollectionInfoRequest{
		CollectionName: c.collectionName,
	})
	if err == nil {
		return nil
	}

	c.logger.Info("creating qdrant collection", zap.String("collection", c.collectionName))
	_, err = collectionsClient.Create(ctx, &qdrant.CreateCollection{
		CollectionName: c.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

func stringValue(s string) *qdrant.Value {
	return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: s}}
}

// Upsert adds or updates artifact records in the collection. Records without
// an embedding are skipped.
func (c *QdrantClient) Upsert(ctx context.Context, records []domain.ArtifactRecord) error {
	points := make([]*qdrant.PointStruct, 0, len(records))
	for _, r := range records {
		if r.Embedding == nil {
			continue
		}

		pointID := r.ID
		if _, err := uuid.Parse(pointID); err != nil {
			pointID = uuid.NewString()
		}

		payload := map[string]*qdrant.Value{
			"kind":      stringValue(string(r.Kind)),
			"language":  stringValue(string(r.Language)),
			"content":   stringValue(r.Content),
			"file_path": stringValue(r.FilePath),
			"artifact":  stringValue(r.Artifact),
		}
		for k, v := range r.Metadata {
			if _, reserved := payload[k]; !reserved {
				payload[k] = stringValue(v)
			}
		}

		points = append(points, &qdrant.PointStruct{
			Id:      &qdrant.PointId{PointIdOptions: &qdrant.PointId_Uuid{Uuid: pointID}},
			Vectors: &qdrant.Vectors{VectorsOptions: &qdrant.Vectors_Vector{Vector: &qdrant.Vector{Data: r.Embedding}}},
			Payload: payload,
		})
	}

	if len(points) == 0 {
		return nil
	}

	_, err := c.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: c.collectionName,
		Points:         points,
		Wait:           proto.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points to Qdrant: %w", err)
	}
	return nil
}

// Query returns up to k records similar to the embedding, best first.
func (c *QdrantClient) Query(ctx context.Context, embedding domain.Embedding, k int) ([]domain.ArtifactRecord, error) {
	searchResult, err := c.client.Search(ctx, &qdrant.SearchPoints{
		CollectionName: c.collectionName,
		Vector:         embedding,
		Limit:          uint64(k),
		WithPayload:    &qdrant.WithPayloadSelector{SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search points in Qdrant: %w", err)
	}

	records := make([]domain.ArtifactRecord, 0, len(searchResult.GetResult()))
	for _, hit := range searchResult.GetResult() {
		payload := hit.GetPayload()
		if payload == nil {
			continue
		}

		pointID := ""
		if uuidVal, ok := hit.GetId().GetPointIdOptions().(*qdrant.PointId_Uuid); ok {
			pointID = uuidVal.Uuid
		}

		metadata := make(map[string]string)
		for key, val := range payload {
			switch key {
			case "kind", "language", "content", "file_path", "artifact":
				continue
			}
			if s := val.GetStringValue(); s != "" {
				metadata[key] = s
			}
		}

		records = append(records, domain.ArtifactRecord{
			ID:       pointID,
			Kind:     domain.ArtifactKind(payload["kind"].GetStringValue()),
			Language: domain.LanguageTag(payload["language"].GetStringValue()),
			Content:  payload["content"].GetStringValue(),
			FilePath: payload["file_path"].GetStringValue(),
			Artifact: payload["artifact"].GetStringValue(),
			Score:    hit.GetScore(),
			Metadata: metadata,
		})
	}
	return records, nil
}
