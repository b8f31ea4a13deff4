/*
This project is the monolithic backend API for the OpenSourceDUTH team. Access to open data compiled and provided by the OpenSourceDUTH University Team as well as helper endpoints to integrate with our apps.
API Copyright (C) 2025 OpenSourceDUTH
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package provider

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type ObjectStoreConfig struct {
	Endpoint  string
	Bucket    string
	Prefix    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// ObjectStore reads <prefix><id>.json objects from an S3 compatible bucket.
type ObjectStore struct {
	client *minio.Client
	bucket string
	prefix string
}

func NewObjectStore(cfg ObjectStoreConfig) (*ObjectStore, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	opts := &minio.Options{Secure: cfg.UseSSL}
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		opts.Creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	}
	client, err := minio.New(endpoint, opts)
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &ObjectStore{
		client: client,
		bucket: bucket,
		prefix: normalizePrefix(cfg.Prefix),
	}, nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

func (o *ObjectStore) Name() string {
	return "s3"
}

func (o *ObjectStore) objectKey(id string) string {
	return o.prefix + id + fileExt
}

func (o *ObjectStore) FetchWeekMenu(ctx context.Context, id string) ([]byte, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	obj, err := o.client.GetObject(ctx, o.bucket, o.objectKey(id), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetching menu %s: %w", id, err)
	}
	defer obj.Close()

	// GetObject is lazy; a missing key only surfaces on the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		if isMissingObject(err) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("reading menu %s: %w", id, err)
	}
	return data, nil
}

func (o *ObjectStore) ListWeekIDs(ctx context.Context) ([]string, error) {
	ids := []string{}
	for obj := range o.client.ListObjects(ctx, o.bucket, minio.ListObjectsOptions{
		Prefix:    o.prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			if isMissingObject(obj.Err) {
				return []string{}, nil
			}
			return nil, fmt.Errorf("listing menus: %w", obj.Err)
		}
		name := strings.TrimPrefix(obj.Key, o.prefix)
		if strings.Contains(name, "/") || !strings.HasSuffix(name, fileExt) {
			continue
		}
		id := strings.TrimSuffix(name, fileExt)
		if ValidateID(id) != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func isMissingObject(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchBucket"
}
