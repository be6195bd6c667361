package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"paxName",
			"contactNumber",
			"pnr",
			"sectorType",
			"travelDate",
			"from",
			"to",
			"status",
			"revision",
			"createdAt",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"paxName": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},

			"contactNumber": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 30,
			},

			"pnr": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 20,
			},

			"sectorType": bson.M{
				"bsonType": "string",
				"enum": []string{
					"One Way",
					"Round Trip",
					"Multiple",
				},
			},

			"travelDate": bson.M{
				"bsonType": "date",
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"Draft",
					"Pending Verification",
					"Account Verified",
					"Admin Verified",
					"Billed",
					"Paid",
					"Unticketed",
					"Ticked",
					"Cancelled",
				},
			},

			"billingStatus": bson.M{
				"bsonType": "string",
				"enum": []string{
					"Unpaid",
					"Partial Paid",
					"Fully Paid",
				},
			},

			"ourCost": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
			},

			"salePrice": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
			},

			"revision": bson.M{
				"bsonType": []string{"long", "int"},
				"minimum":  1,
			},

			"progressHistory": bson.M{
				"bsonType": "array",
			},

			"createdAt": bson.M{
				"bsonType": "date",
			},
		},
	},
}
