package validators

import "go.mongodb.org/mongo-driver/bson"

var SupplierValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"isActive",
			"isOutsourcedChannel",
			"createdAt",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"isActive": bson.M{
				"bsonType": "bool",
			},

			"isOutsourcedChannel": bson.M{
				"bsonType": "bool",
			},

			"createdAt": bson.M{
				"bsonType": "date",
			},
		},
	},
}
