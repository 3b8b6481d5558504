/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of model.
* A model is stored under its primary key, prefixed with the bucket name.
* Sequences generate increasing keys for append only collections.
*/
package orm
