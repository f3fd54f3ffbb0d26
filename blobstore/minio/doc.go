// Package minio provides a blobstore.Store backed by the MinIO client, so
// fixtures can be shared through MinIO or any S3-compatible service.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "bench", "fixtures/")
//	name, err := fixture.Save(ctx, store, input, n)
//
// Blobs are read with ranged GET requests. Streaming writes run a single
// PutObject in the background fed through a pipe.
package minio
