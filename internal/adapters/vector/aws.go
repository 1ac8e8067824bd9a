package vector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3vectors"
	s3vectortypes "github.com/aws/aws-sdk-go-v2/service/s3vectors/types"
	"github.com/aws/smithy-go"
)

// BedrockEmbedder generates embeddings with the Bedrock Titan text model.
type BedrockEmbedder struct {
	client     *bedrockruntime.Client
	modelID    string
	dimensions int
}

// NewBedrockEmbedder wires a Bedrock runtime client to a Titan embedding
// model id and output dimension.
func NewBedrockEmbedder(client *bedrockruntime.Client, modelID string, dimensions int) *BedrockEmbedder {
	return &BedrockEmbedder{
		client:     client,
		modelID:    modelID,
		dimensions: dimensions,
	}
}

// titanRequest is the Titan V2 embedding request body.
type titanRequest struct {
	InputText  string `json:"inputText"`
	Dimensions int    `json:"dimensions"`
	Normalize  bool   `json:"normalize"`
}

type titanResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed invokes the model and returns a normalized embedding vector.
func (e *BedrockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(titanRequest{
		InputText:  text,
		Dimensions: e.dimensions,
		Normalize:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	out, err := e.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(e.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ValidationException" {
			return nil, fmt.Errorf("%w: invoke model %s: %w", ErrBadInput, e.modelID, err)
		}
		return nil, fmt.Errorf("invoke model %s: %w", e.modelID, err)
	}

	var resp titanResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("model %s returned no embedding", e.modelID)
	}
	return resp.Embedding, nil
}

// S3VectorsIndex queries a pre-built skill index in S3 Vectors. Cosine
// distance comes back per hit; the gateway interprets it as similarity.
type S3VectorsIndex struct {
	client *s3vectors.Client
	bucket string
	index  string
}

// NewS3VectorsIndex wires an S3 Vectors client to one vector bucket/index.
func NewS3VectorsIndex(client *s3vectors.Client, bucket, index string) *S3VectorsIndex {
	return &S3VectorsIndex{
		client: client,
		bucket: bucket,
		index:  index,
	}
}

// Query returns the topK nearest skills for the vector.
func (i *S3VectorsIndex) Query(ctx context.Context, vec []float32, topK int) ([]Hit, error) {
	out, err := i.client.QueryVectors(ctx, &s3vectors.QueryVectorsInput{
		VectorBucketName: aws.String(i.bucket),
		IndexName:        aws.String(i.index),
		TopK:             aws.Int32(int32(topK)),
		QueryVector:      &s3vectortypes.VectorDataMemberFloat32{Value: vec},
		ReturnDistance:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("query vectors %s/%s: %w", i.bucket, i.index, err)
	}

	hits := make([]Hit, 0, len(out.Vectors))
	for _, v := range out.Vectors {
		if v.Key == nil || v.Distance == nil {
			continue
		}
		hits = append(hits, Hit{
			SkillID:  aws.ToString(v.Key),
			Distance: float64(aws.ToFloat32(v.Distance)),
		})
	}
	return hits, nil
}
