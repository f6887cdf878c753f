package handlers

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildProductFilter(t *testing.T) {
	t.Run("defaults to active only", func(t *testing.T) {
		filter := buildProductFilter("", "", "", "", "")
		if !reflect.DeepEqual(filter, bson.M{"isActive": true}) {
			t.Errorf("filter = %v", filter)
		}
	})

	t.Run("combines filters", func(t *testing.T) {
		filter := buildProductFilter("silk", "accessories", "SALE", "100", "5000")

		if filter["isActive"] != true {
			t.Error("inactive products not excluded")
		}
		if !reflect.DeepEqual(filter["categories"], bson.M{"$in": []string{"accessories"}}) {
			t.Errorf("categories = %v", filter["categories"])
		}
		if filter["badge"] != "SALE" {
			t.Errorf("badge = %v", filter["badge"])
		}
		if !reflect.DeepEqual(filter["price"], bson.M{"$gte": int64(100), "$lte": int64(5000)}) {
			t.Errorf("price = %v", filter["price"])
		}
		if !reflect.DeepEqual(filter["$text"], bson.M{"$search": "silk"}) {
			t.Errorf("$text = %v", filter["$text"])
		}
	})

	t.Run("ignores unparseable price bounds", func(t *testing.T) {
		filter := buildProductFilter("", "", "", "abc", "")
		if _, ok := filter["price"]; ok {
			t.Errorf("price filter present for garbage input: %v", filter["price"])
		}
	})
}

func TestSortFor(t *testing.T) {
	tests := []struct {
		name string
		want bson.D
	}{
		{"price-asc", bson.D{{Key: "price", Value: 1}}},
		{"price-desc", bson.D{{Key: "price", Value: -1}}},
		{"rating", bson.D{{Key: "rating", Value: -1}}},
		{"newest", bson.D{{Key: "createdAt", Value: -1}}},
		{"", bson.D{{Key: "featured", Value: -1}, {Key: "createdAt", Value: -1}}},
		{"bogus", bson.D{{Key: "featured", Value: -1}, {Key: "createdAt", Value: -1}}},
	}

	for _, tt := range tests {
		if got := sortFor(tt.name); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("sortFor(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
